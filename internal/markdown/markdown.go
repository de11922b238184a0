// Package markdown converts post bodies to HTML fragments and applies the
// link policy that precedes conversion.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// WithUnsafe is required so the raw anchors injected by RewriteLinks pass
// through the renderer instead of being escaped.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ToHTML renders a markdown body (header already stripped, links already
// rewritten) to an HTML fragment.
func ToHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
