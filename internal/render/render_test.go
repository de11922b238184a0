package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/metadata"
)

func TestPage_CompleteDocument(t *testing.T) {
	meta := metadata.Metadata{
		Title: "Hello World",
		Date:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Slug:  "hello-world",
	}

	out, err := Page(meta, []byte("<p>Hi there.</p>"))
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "<!DOCTYPE html>")
	require.Contains(t, html, "<title>Hello World</title>")
	require.Contains(t, html, `<meta charset="utf-8">`)
	require.Contains(t, html, `name="viewport"`)
	require.Contains(t, html, `<time datetime="2024-05-01">May 1, 2024</time>`)
	require.Contains(t, html, "<p>Hi there.</p>")
	require.Contains(t, html, "<main>")
}

func TestPage_BodyFragmentNotEscaped(t *testing.T) {
	meta := metadata.Metadata{Title: "T", Date: time.Now(), Slug: "t"}

	out, err := Page(meta, []byte(`<a href="https://x.test" target="_blank">x</a>`))
	require.NoError(t, err)
	require.Contains(t, string(out), `target="_blank"`)
}

func TestPage_TitleIsEscaped(t *testing.T) {
	meta := metadata.Metadata{Title: "Tags <& You>", Date: time.Now(), Slug: "tags"}

	out, err := Page(meta, nil)
	require.NoError(t, err)
	require.Contains(t, string(out), "Tags &lt;&amp; You&gt;")
}

func TestFormatDate_TimeValue(t *testing.T) {
	machine, display, err := FormatDate(time.Date(2023, 12, 9, 15, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2023-12-09", machine)
	require.Equal(t, "December 9, 2023", display)
}

func TestFormatDate_StringValue(t *testing.T) {
	machine, display, err := FormatDate("2024-01-02")
	require.NoError(t, err)
	require.Equal(t, "2024-01-02", machine)
	require.Equal(t, "January 2, 2024", display)
}

func TestFormatDate_BadString_ReturnsError(t *testing.T) {
	_, _, err := FormatDate("01/02/2024")
	require.Error(t, err)
}
