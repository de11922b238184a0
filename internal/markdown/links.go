package markdown

import (
	"bytes"
	"fmt"
	"regexp"
)

// InternalPrefix marks site-internal navigation. Links under it are never
// rewritten to open in a new browsing context.
const InternalPrefix = "/posts/"

// reInlineLink matches inline markdown links, capturing an optional leading
// bang so image syntax can be left alone.
var reInlineLink = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]*)\)`)

// RewriteLinks replaces external inline links with raw HTML anchors carrying
// target="_blank", leaving internal /posts/ links and images untouched.
//
// The transform must run before markdown-to-HTML conversion so the anchors
// survive into the rendered output. It is idempotent: rewritten links no
// longer match the markdown link syntax, so a second pass is a no-op.
func RewriteLinks(body []byte) []byte {
	return reInlineLink.ReplaceAllFunc(body, func(m []byte) []byte {
		sub := reInlineLink.FindSubmatch(m)
		bang, text, url := sub[1], sub[2], sub[3]
		if len(bang) > 0 {
			return m
		}
		if bytes.HasPrefix(url, []byte(InternalPrefix)) {
			return m
		}
		return fmt.Appendf(nil, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, url, text)
	})
}
