// Package slug derives URL-safe identifiers from markdown filenames.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reUnsafe     = regexp.MustCompile(`[^\w\s-]`)
	reWhitespace = regexp.MustCompile(`\s+`)

	// NFKD decomposition followed by removal of combining marks folds
	// accented characters to their ASCII base form before the unsafe-class
	// strip would otherwise drop them entirely.
	deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	markdownExtensions = []string{".markdown", ".md"}
)

// Sanitize converts a filename to a URL-safe slug: strips a trailing markdown
// extension, folds diacritics, removes characters outside [\w\s-], trims,
// collapses whitespace runs to single hyphens and lower-cases.
//
// Sanitize is deterministic and idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range markdownExtensions {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}

	if folded, _, err := transform.String(deaccent, name); err == nil {
		name = folded
	}

	name = reUnsafe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	name = reWhitespace.ReplaceAllString(name, "-")
	return strings.ToLower(name)
}
