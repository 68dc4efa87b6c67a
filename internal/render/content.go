package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// GFM minus Linkify: bare URLs must reach the link normalizer as text.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.TaskList),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Body turns free-form post text into markup safe to embed in the page:
// optional markdown conversion, allow-list sanitizing, then link rewriting.
func (r *Renderer) Body(text string) template.HTML {
	s := text
	if r.opts.Markdown {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(s), &buf); err == nil {
			s = buf.String()
		}
	}
	if r.opts.Sanitize {
		s = ugcPolicy.Sanitize(s)
	}
	return template.HTML(r.links.Normalize(s))
}

// PlainText strips all markup from s, for meta tags and JSON-LD.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
