package render

import (
	"encoding/json"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/mithrel/blogview/pkg/api"
)

// Fallbacks used when a post field is empty.
const (
	fallbackTitle       = "Blog Post Title"
	fallbackMetaTitle   = "Blog, Article"
	fallbackDescription = "Blog post description"
	fallbackAuthor      = "Unknown"
	twitterCard         = "summary_large_image"
)

// Head is the document metadata for a post page.
type Head struct {
	Title           string
	MetaTitle       string
	Description     string
	Author          string
	PublicationDate string
	Image           string
	URL             string
	TwitterCard     string
	TwitterSite     string
	JSONLD          template.JS
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type blogPosting struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	Description   string `json:"description"`
	Image         string `json:"image,omitempty"`
	Author        person `json:"author"`
	DatePublished string `json:"datePublished,omitempty"`
	DateModified  string `json:"dateModified,omitempty"`
}

// BuildHead fills page metadata from p. now backs publication_date when the
// post has no creation time.
func (r *Renderer) BuildHead(key api.Key, p api.Post, now time.Time) Head {
	desc := PlainText(p.Description)
	h := Head{
		Title:           or(p.Title, fallbackTitle),
		MetaTitle:       or(p.Title, fallbackMetaTitle),
		Description:     or(desc, fallbackDescription),
		Author:          or(p.Author, fallbackAuthor),
		PublicationDate: formatTime(p.CreatedAt),
		Image:           p.ImageURL,
		URL:             r.CanonicalURL(key, p),
		TwitterCard:     twitterCard,
		TwitterSite:     r.opts.TwitterHandle,
	}
	if h.PublicationDate == "" {
		h.PublicationDate = now.UTC().Format(time.RFC3339)
	}

	ld := blogPosting{
		Context:       "https://schema.org",
		Type:          "BlogPosting",
		Headline:      p.Title,
		Description:   desc,
		Image:         p.ImageURL,
		Author:        person{Type: "Person", Name: p.Author},
		DatePublished: formatTime(p.CreatedAt),
		DateModified:  formatTime(p.UpdatedAt),
	}
	// json.Marshal escapes <, > and &, so the block cannot close the script.
	if b, err := json.MarshalIndent(ld, "", "  "); err == nil {
		h.JSONLD = template.JS(b)
	}
	return h
}

// CanonicalURL is {site}/blogpost/{id}/{slug}; the slug segment is dropped when empty.
func (r *Renderer) CanonicalURL(key api.Key, p api.Post) string {
	id := p.ID
	if id == "" {
		id = key.ID
	}
	u := strings.TrimRight(r.opts.SiteBaseURL, "/") + "/blogpost/" + url.PathEscape(id)
	if key.Slug != "" {
		u += "/" + url.PathEscape(key.Slug)
	}
	return u
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
