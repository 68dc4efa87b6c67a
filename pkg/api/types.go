package api

import (
	"net/url"
	"strings"
	"time"
)

// Post is a blog post as served by the posts API.
type Post struct {
	ID               string    `json:"_id"`
	Author           string    `json:"author"`
	AuthorImage      string    `json:"authorImg"`
	AuthorOccupation string    `json:"authorOccupation,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Content          string    `json:"content"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Key identifies a post: the opaque id plus the title slug used in URLs.
type Key struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func (k Key) Valid() bool { return strings.TrimSpace(k.ID) != "" }

// Path returns the API path for the key, /posts/{id}/{slug}.
func (k Key) Path() string {
	return "/posts/" + url.PathEscape(k.ID) + "/" + url.PathEscape(k.Slug)
}

func (k Key) String() string {
	if k.Slug == "" {
		return k.ID
	}
	return k.ID + "/" + k.Slug
}
