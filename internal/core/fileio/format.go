// Package fileio converts documents to and from their portable file form and
// defines the file access the editor depends on: handles, pickers, and the
// fallbacks used when no picker is available.
package fileio

import (
	"bytes"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// UntitledTitle is written when a document has no title.
const UntitledTitle = "Untitled"

var (
	bodyPattern   = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)
	titleReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		gmhtml.WithXHTML(),
	),
)

// Serialize wraps content in a standalone HTML page titled title.
func Serialize(title, content string) []byte {
	if title == "" {
		title = UntitledTitle
	}

	var b strings.Builder
	b.WriteString(`<!doctype html><html><head><meta charset="utf-8"><title>`)
	b.WriteString(titleReplacer.Replace(title))
	b.WriteString(`</title></head><body>`)
	b.WriteString(content)
	b.WriteString(`</body></html>`)
	return []byte(b.String())
}

// Deserialize extracts the content between the first <body> and </body>
// tags. Input without a body is returned unchanged and treated as a content
// fragment.
func Deserialize(data []byte) string {
	m := bodyPattern.FindSubmatch(data)
	if m == nil {
		return string(data)
	}
	return string(m[1])
}

// Decode turns the bytes of a file named name into editor content. Plain
// text becomes one paragraph per line and Markdown is rendered; anything
// else is read as HTML.
func Decode(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return TextToHTML(string(data))
	case ".md", ".markdown":
		return MarkdownToHTML(data)
	default:
		return Deserialize(data)
	}
}

// TextToHTML converts plain text into escaped paragraphs. Empty lines become
// empty paragraphs.
func TextToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			b.WriteString("<p><br></p>")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}

// MarkdownToHTML renders GitHub flavored Markdown. Raw HTML in the source is
// not passed through. Input that fails to render is kept as preformatted
// text.
func MarkdownToHTML(src []byte) string {
	var b bytes.Buffer
	if err := markdown.Convert(src, &b); err != nil {
		return "<pre>" + html.EscapeString(string(src)) + "</pre>"
	}
	return b.String()
}
