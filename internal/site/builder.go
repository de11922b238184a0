// Package site implements the build pipeline: discover markdown documents,
// extract metadata, rewrite links, convert to HTML and write rendered pages,
// isolating failures per document.
package site

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metadata"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

// Builder runs full build passes over a source tree. A pass is always a
// from-scratch replacement of the output directory contents; nothing is
// cached between runs.
type Builder struct {
	source string
	output string
}

// NewBuilder creates a Builder from configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{source: cfg.Source, output: cfg.Output}
}

// Run performs one full build pass.
//
// A missing source root is fatal and writes no output. Any per-document
// failure is logged, recorded on the report and skipped; the pass always
// completes over the surviving documents.
func (b *Builder) Run(ctx context.Context) (*BuildReport, error) {
	report := &BuildReport{BuildID: uuid.NewString(), Start: time.Now()}

	if err := ctx.Err(); err != nil {
		report.Outcome = OutcomeCanceled
		report.End = time.Now()
		return report, err
	}

	if st, err := os.Stat(b.source); err != nil || !st.IsDir() {
		report.Outcome = OutcomeFailed
		report.End = time.Now()
		metrics.BuildsTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return report, fmt.Errorf("source directory not found: %s", b.source)
	}

	postsDir := filepath.Join(b.output, "posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		report.Outcome = OutcomeFailed
		report.End = time.Now()
		metrics.BuildsTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return report, fmt.Errorf("create output directory: %w", err)
	}

	// Stale pages from removed or renamed sources must not linger.
	if err := clearOutput(b.output); err != nil {
		slog.Warn("Failed to clear previous output", logfields.Output(b.output), logfields.Error(err))
	}

	docs, err := DiscoverDocs(b.source)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.End = time.Now()
		metrics.BuildsTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return report, fmt.Errorf("discover documents: %w", err)
	}
	report.Discovered = len(docs)

	now := report.Start
	for _, doc := range docs {
		if err := b.buildOne(doc, postsDir, now); err != nil {
			slog.Warn("Document build failed; skipping", logfields.Path(doc.RelativePath), logfields.Error(err))
			report.addIssue(doc.RelativePath, stageOf(err), err)
			metrics.DocumentFailures.Inc()
			continue
		}
		report.Rendered++
	}

	report.finalize()
	metrics.BuildsTotal.WithLabelValues(string(report.Outcome)).Inc()
	metrics.PagesRendered.Add(float64(report.Rendered))

	slog.Info("Build pass complete",
		logfields.BuildID(report.BuildID),
		slog.Int("discovered", report.Discovered),
		slog.Int("rendered", report.Rendered),
		slog.Int("failed", report.Failed),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

// buildOne runs the per-document pipeline: read, extract metadata, rewrite
// links, convert, assemble the page and write it.
func (b *Builder) buildOne(doc DocFile, postsDir string, now time.Time) error {
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return &stageError{stage: "read", err: err}
	}

	meta, body := metadata.Extract(doc.Name, raw, now)

	body = markdown.RewriteLinks(body)
	bodyHTML, err := markdown.ToHTML(body)
	if err != nil {
		return &stageError{stage: "convert", err: err}
	}

	page, err := render.Page(meta, bodyHTML)
	if err != nil {
		return &stageError{stage: "render", err: err}
	}

	dest := filepath.Join(postsDir, meta.Slug+".html")
	if err := os.WriteFile(dest, page, 0o644); err != nil {
		return &stageError{stage: "write", err: err}
	}

	slog.Debug("Rendered page", logfields.File(doc.Name), logfields.Slug(meta.Slug))
	return nil
}

// clearOutput recursively deletes regular files under the output root,
// keeping the directory structure in place.
func clearOutput(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return os.Remove(path)
	})
}

// stageError tags a per-document failure with the pipeline stage it came from.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func stageOf(err error) string {
	if se, ok := err.(*stageError); ok {
		return se.stage
	}
	return "build"
}
