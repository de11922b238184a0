// Package metadata extracts post metadata from an optional YAML header,
// falling back to filename-derived defaults so downstream stages never see
// a missing field.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// Metadata is the attribute set attached to every document. All three fields
// are populated by Extract; consumers never need to handle an absent value.
type Metadata struct {
	Title string
	Date  time.Time
	Slug  string
}

// header is the recognized shape of the YAML block. Date stays a string so
// lenient parsing happens under our control rather than the YAML decoder's.
type header struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Slug  string `yaml:"slug"`
}

// Extract parses an optional leading YAML header from raw and returns the
// resulting Metadata together with the remaining body.
//
// Fallback rules:
//   - no header: full default triple, body is the entire raw input
//   - header present, field absent or empty: per-field default
//   - header malformed (bad YAML or missing closing delimiter): full default
//     triple and an empty body; the failure is logged, never returned
func Extract(filename string, raw []byte, now time.Time) (Metadata, []byte) {
	fm, body, had, err := frontmatter.Split(raw)
	if err != nil {
		slog.Warn("Malformed document header; using default metadata", logfields.File(filename), logfields.Error(err))
		return defaults(filename, now), []byte{}
	}
	if !had {
		return defaults(filename, now), raw
	}

	var h header
	if err := yaml.Unmarshal(fm, &h); err != nil {
		slog.Warn("Unparsable document header; using default metadata", logfields.File(filename), logfields.Error(err))
		return defaults(filename, now), []byte{}
	}

	meta := defaults(filename, now)
	if title := strings.TrimSpace(h.Title); title != "" {
		meta.Title = title
	}
	if s := strings.TrimSpace(h.Slug); s != "" {
		meta.Slug = s
	}
	if d, ok := parseDate(h.Date); ok {
		meta.Date = d
	}
	return meta, body
}

func defaults(filename string, now time.Time) Metadata {
	s := slug.Sanitize(filename)
	if s == "" {
		// Filenames with no ASCII word characters (regexp \w is ASCII-only)
		// sanitize to nothing; derive a stable identifier from the name so
		// title and slug stay populated and distinct documents stay distinct.
		sum := sha256.Sum256([]byte(filename))
		s = "untitled-" + hex.EncodeToString(sum[:4])
	}
	title := titleFromFilename(filename)
	if title == "" {
		title = "Untitled"
	}
	return Metadata{
		Title: title,
		Date:  now,
		Slug:  s,
	}
}

// titleFromFilename converts kebab or snake case to Title Case:
// getting-started.md -> Getting Started.
func titleFromFilename(filename string) string {
	base := slug.Sanitize(filename)
	base = strings.ReplaceAll(base, "_", "-")
	parts := strings.Split(base, "-")
	out := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(out, " ")
}

// parseDate accepts the canonical 2006-01-02 form first, then falls back to
// lenient parsing for other common date representations.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
