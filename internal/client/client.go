// Package client reads posts from the remote posts API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mithrel/blogview/pkg/api"
)

var ErrNotFound = errors.New("post not found")

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("posts api: status %d", e.Code)
	}
	return fmt.Sprintf("posts api: status %d: %s", e.Code, e.Body)
}

const userAgent = "blogview/1"

// maxErrBody caps how much of an error response is kept in StatusError.
const maxErrBody = 512

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient swaps the underlying http.Client (tests, custom transports).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Fetch issues GET {base}/posts/{id}/{slug} and decodes the post.
func (c *Client) Fetch(ctx context.Context, key api.Key) (api.Post, error) {
	if !key.Valid() {
		return api.Post{}, errors.New("post id is required")
	}
	body, code, err := c.execRequest(ctx, http.MethodGet, c.baseURL+key.Path())
	if err != nil {
		return api.Post{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	switch {
	case code == http.StatusNotFound:
		return api.Post{}, ErrNotFound
	case code < 200 || code >= 300:
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrBody {
			msg = msg[:maxErrBody]
		}
		return api.Post{}, &StatusError{Code: code, Body: msg}
	}
	var p api.Post
	if err := json.Unmarshal(body, &p); err != nil {
		return api.Post{}, fmt.Errorf("decode post %s: %w", key, err)
	}
	return p, nil
}

func (c *Client) execRequest(ctx context.Context, method, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

type ctxKey struct{}

// WithRequestID attaches an id that outgoing requests forward in X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestID(ctx context.Context) string {
	if id := RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
