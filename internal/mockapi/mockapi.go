// Package mockapi is a small in-memory posts API for local development and
// end-to-end tests.
package mockapi

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gorilla/mux"

	"github.com/mithrel/blogview/pkg/api"
)

var hosts = []string{
	"https://www.youtube.com/watch?v=%d",
	"https://github.com/blogview/sample-%d",
	"https://www.linkedin.com/in/author-%d",
	"https://twitter.com/blogview/status/%d",
	"https://example.org/notes/%d",
}

// SamplePosts returns n deterministic posts for seed, dated backwards from base.
func SamplePosts(n int, seed int64, base time.Time) []api.Post {
	mr := mrand.New(mrand.NewSource(seed))
	out := make([]api.Post, 0, n)
	for i := 0; i < n; i++ {
		// Stagger timestamps backwards to look natural
		created := base.Add(-time.Duration(30*i+mr.Intn(60)) * time.Minute).UTC()
		updated := created
		if mr.Float64() < 0.3 {
			updated = created.Add(time.Duration(mr.Intn(180)) * time.Minute)
		}
		link := fmt.Sprintf(hosts[mr.Intn(len(hosts))], i+1)
		p := api.Post{
			ID:          fmt.Sprintf("%024x", mr.Int63()),
			Author:      fmt.Sprintf("Author %02d", i%7+1),
			AuthorImage: fmt.Sprintf("https://picsum.photos/seed/author%d/64", i%7+1),
			Title:       fmt.Sprintf("Sample Post %03d", i+1),
			Description: fmt.Sprintf("A short description for sample post %03d.", i+1),
			Content:     fmt.Sprintf("<p>This is the body for sample post %03d.</p><p>More at %s</p>", i+1, link),
			CreatedAt:   created,
			UpdatedAt:   updated,
		}
		if i%3 == 0 {
			p.AuthorOccupation = "Engineer"
			p.ImageURL = fmt.Sprintf("https://picsum.photos/seed/post%d/1200/630", i+1)
		}
		out = append(out, p)
	}
	return out
}

// Slug derives the URL slug for a title: lower-case words joined by dashes.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Handler serves GET /posts/{id}/{slug}. An empty slug matches any post with
// that id; otherwise it must equal Slug(title).
func Handler(posts []api.Post) http.Handler {
	byID := make(map[string]api.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	find := func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		p, ok := byID[vars["id"]]
		if !ok || (vars["slug"] != "" && vars["slug"] != Slug(p.Title)) {
			http.Error(w, `{"message":"post not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	}
	r := mux.NewRouter()
	r.HandleFunc("/posts/{id}/", find).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}/{slug}", find).Methods(http.MethodGet)
	r.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(posts)
	}).Methods(http.MethodGet)
	return r
}
