// Package render assembles a complete, self-contained HTML document for one
// post from its metadata and converted body fragment.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/metadata"
)

const (
	machineDateLayout = "2006-01-02"
	displayDateLayout = "January 2, 2006"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 42rem; margin: 0 auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; color: #1a1a1a; }
header { margin: 2rem 0; border-bottom: 1px solid #ddd; padding-bottom: 1rem; }
header h1 { margin-bottom: 0.25rem; }
time { color: #666; font-size: 0.9rem; }
pre { overflow-x: auto; background: #f6f6f6; padding: 0.75rem; }
img { max-width: 100%; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<time datetime="{{.MachineDate}}">{{.DisplayDate}}</time>
</header>
<main>
{{.Body}}
</main>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title       string
	MachineDate string
	DisplayDate string
	Body        template.HTML
}

// Page renders the full HTML document for one post. Title and Date are
// guaranteed populated by the metadata extractor, so Page has no fallback
// logic of its own.
func Page(meta metadata.Metadata, bodyHTML []byte) ([]byte, error) {
	machine, display, err := FormatDate(meta.Date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := pageData{
		Title:       meta.Title,
		MachineDate: machine,
		DisplayDate: display,
		Body:        template.HTML(bodyHTML),
	}
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page %q: %w", meta.Slug, err)
	}
	return buf.Bytes(), nil
}

// FormatDate accepts either an already-parsed time.Time or a 2006-01-02
// string and returns the machine-readable attribute form alongside the long
// human-readable display form.
func FormatDate(v any) (machine, display string, err error) {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case string:
		t, err = time.Parse(machineDateLayout, d)
		if err != nil {
			return "", "", fmt.Errorf("parse date %q: %w", d, err)
		}
	default:
		return "", "", fmt.Errorf("unsupported date value %T", v)
	}
	return t.Format(machineDateLayout), t.Format(displayDateLayout), nil
}
