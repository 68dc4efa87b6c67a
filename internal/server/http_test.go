package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mithrel/blogview/internal/wire"
	"github.com/mithrel/blogview/pkg/api"
)

type postsAPI struct {
	posts     map[string]api.Post
	calls     atomic.Int32
	lastReqID atomic.Value
}

func (p *postsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.calls.Add(1)
	p.lastReqID.Store(r.Header.Get("X-Request-ID"))
	if r.URL.Path == "/posts/boom/x" {
		http.Error(w, "db down", http.StatusInternalServerError)
		return
	}
	post, ok := p.posts[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(post)
}

func newTestServer(t *testing.T, configure ...func(*viper.Viper)) (*Server, *postsAPI, *observer.ObservedLogs) {
	t.Helper()
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	fake := &postsAPI{posts: map[string]api.Post{
		"/posts/42/hello": {
			ID: "42", Author: "Ada", AuthorImage: "https://cdn.example.org/ada.png",
			Title: "Hello", Description: "See https://github.com/ada",
			Content: "<p>Body</p>", CreatedAt: created, UpdatedAt: created,
		},
		"/posts/42/": {ID: "42", Title: "No slug", CreatedAt: created, UpdatedAt: created},
	}}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	v := viper.New()
	v.Set("api.base_url", ts.URL)
	v.Set("api.timeout", "5s")
	v.Set("site.base_url", "https://blog.example.org")
	v.Set("site.index_path", "/blog")
	v.Set("render.sanitize", true)
	v.Set("loader.refetch_on_slug", true)
	v.Set("log.level", "error")
	v.Set("log.format", "console")
	for _, fn := range configure {
		fn(v)
	}
	app, err := wire.BuildApp(context.Background(), v)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	app.Log = zap.New(core)
	return New(app), fake, logs
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPostPage(t *testing.T) {
	srv, fake, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/blogpost/42/hello", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Hello</title>")
	assert.Contains(t, body, `<meta property="og:url" content="https://blog.example.org/blogpost/42/hello">`)
	assert.Contains(t, body, `>View on GitHub</a>`)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestPostPageWithoutSlug(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/blogpost/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>No slug</title>")
}

func TestPostPageNotModified(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Router()
	first := get(t, h, "/blogpost/42/hello", nil)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rec := get(t, h, "/blogpost/42/hello", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = get(t, h, "/blogpost/42/hello", map[string]string{"If-None-Match": `"other"`})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostPageNotFound(t *testing.T) {
	for _, path := range []string{"/blogpost/missing/x", "/blogpost/boom/x"} {
		t.Run(path, func(t *testing.T) {
			srv, _, logs := newTestServer(t)
			rec := get(t, srv.Router(), path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "Post not found")
			assert.Empty(t, rec.Header().Get("ETag"))
			assert.Equal(t, 1, logs.FilterMessage("error fetching blog post").Len())
		})
	}
}

func TestRequestIDForwarded(t *testing.T) {
	srv, fake, logs := newTestServer(t)
	h := srv.Router()

	rec := get(t, h, "/blogpost/42/hello", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", fake.lastReqID.Load())

	access := logs.FilterMessage("http request").All()
	require.Len(t, access, 1)
	fields := access[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])

	rec = get(t, h, "/healthz", nil)
	assert.Len(t, strings.TrimSpace(rec.Header().Get("X-Request-ID")), 36)
}

func TestUnknownRoute(t *testing.T) {
	srv, fake, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestETagMatch(t *testing.T) {
	assert.True(t, etagMatch(`"a"`, `"a"`))
	assert.True(t, etagMatch(`"x", W/"a"`, `"a"`))
	assert.True(t, etagMatch(`*`, `"a"`))
	assert.False(t, etagMatch(``, `"a"`))
	assert.False(t, etagMatch(`"b"`, `"a"`))
}

func TestPostPageETagFollowsRenderSettings(t *testing.T) {
	before, _, _ := newTestServer(t)
	etag := get(t, before.Router(), "/blogpost/42/hello", nil).Header().Get("ETag")
	require.NotEmpty(t, etag)

	after, _, _ := newTestServer(t, func(v *viper.Viper) {
		v.Set("links.class", "ext")
	})
	rec := get(t, after.Router(), "/blogpost/42/hello", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), `class="ext"`)
}
