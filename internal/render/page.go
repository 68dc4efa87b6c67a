// Package render produces the post page: metadata, processed post text and
// the HTML document around them.
package render

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/mithrel/blogview/internal/linkify"
	"github.com/mithrel/blogview/pkg/api"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Options struct {
	SiteBaseURL   string
	IndexPath     string
	TwitterHandle string
	Markdown      bool
	Sanitize      bool
	Links         *linkify.Normalizer
}

type Renderer struct {
	opts     Options
	links    *linkify.Normalizer
	post     *template.Template
	notFound *template.Template
	now      func() time.Time
	version  string
}

func New(opts Options) *Renderer {
	if opts.IndexPath == "" {
		opts.IndexPath = "/blog"
	}
	links := opts.Links
	if links == nil {
		links = linkify.New()
	}
	return &Renderer{
		opts:     opts,
		links:    links,
		post:     parsePage("post"),
		notFound: parsePage("notfound"),
		now:      time.Now,
		version:  fingerprint(opts, links),
	}
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name+".tmpl"))
}

// PostPage is the data behind the post template.
type PostPage struct {
	Head        Head
	Post        api.Post
	IndexPath   string
	Description template.HTML
	Content     template.HTML
}

func (r *Renderer) Page(key api.Key, p api.Post) PostPage {
	return PostPage{
		Head:        r.BuildHead(key, p, r.now()),
		Post:        p,
		IndexPath:   r.opts.IndexPath,
		Description: r.Body(p.Description),
		Content:     r.Body(p.Content),
	}
}

// RenderPost writes the full post document.
func (r *Renderer) RenderPost(w io.Writer, key api.Key, p api.Post) error {
	return r.post.ExecuteTemplate(w, "layout", r.Page(key, p))
}

// RenderNotFound writes the "Post not found" document.
func (r *Renderer) RenderNotFound(w io.Writer) error {
	return r.notFound.ExecuteTemplate(w, "layout", struct{ IndexPath string }{r.opts.IndexPath})
}
