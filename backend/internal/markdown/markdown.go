// Package markdown renders admin-authored dish descriptions to safe HTML and
// strips markup from visitor input.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmark_html "github.com/yuin/goldmark/renderer/html"
)

type TextProcessor struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		// raw html passes the renderer and is cleaned by the ugc policy below
		goldmark.WithRendererOptions(goldmark_html.WithUnsafe(), goldmark_html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	)

	ugc := bluemonday.UGCPolicy()
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)

	return &TextProcessor{md: md, ugc: ugc, strict: bluemonday.StrictPolicy()}
}

// Render converts markdown to sanitised HTML. Input that goldmark cannot
// convert is returned escaped.
func (tp *TextProcessor) Render(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	return strings.TrimSpace(tp.ugc.Sanitize(buf.String()))
}

// StripTags removes every tag and keeps the text. Entities produced by the
// policy are unescaped so the stored value is plain text.
func (tp *TextProcessor) StripTags(text string) string {
	return strings.TrimSpace(html.UnescapeString(tp.strict.Sanitize(text)))
}
