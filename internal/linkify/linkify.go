// Package linkify rewrites absolute http(s) URLs found in post text into
// labeled anchors that open in a new browsing context.
package linkify

import (
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Text inside these elements is never rewritten.
var skipTags = map[string]bool{
	"a":      true,
	"script": true,
	"style":  true,
}

// Normalizer holds the host label table and anchor options.
type Normalizer struct {
	labels map[string]string
	class  string
}

type Option func(*Normalizer)

// WithLabels adds or overrides host labels. Keys go through Host; when
// several keys name the same host the bare spelling wins, other aliases are
// applied in sorted order.
func WithLabels(labels map[string]string) Option {
	return func(n *Normalizer) {
		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			bi, bj := isBare(keys[i]), isBare(keys[j])
			if bi != bj {
				return bj
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			h := Host(k)
			if h == "" || strings.TrimSpace(labels[k]) == "" {
				continue
			}
			n.labels[h] = labels[k]
		}
	}
}

func isBare(k string) bool {
	return Host(k) == strings.ToLower(strings.TrimSpace(k))
}

// WithClass sets a class attribute on generated anchors.
func WithClass(class string) Option {
	return func(n *Normalizer) { n.class = strings.TrimSpace(class) }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{labels: DefaultLabels()}
	for _, o := range opts {
		o(n)
	}
	return n
}

var std = New()

// Normalize rewrites URLs in text using the built-in label table.
func Normalize(text string) string { return std.Normalize(text) }

// Normalize replaces every absolute URL in the text portions of s with an
// anchor labeled by its host. Markup is passed through untouched, as is text
// already inside an anchor, script or style element. A match that does not
// parse as a URL with a host is left as is. Input without URLs is returned
// unchanged.
func (n *Normalizer) Normalize(s string) string {
	if !urlPattern.MatchString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 64)

	z := html.NewTokenizer(strings.NewReader(s))
	depth := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// An unfinished tag at the end of input is still in Raw.
			if z.Err() == io.EOF {
				b.Write(z.Raw())
			}
			break
		}
		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			if depth == 0 {
				n.rewrite(&b, raw)
			} else {
				b.WriteString(raw)
			}
		case html.StartTagToken:
			b.WriteString(raw)
			// TagName lower-cases the underlying buffer, so raw is copied first.
			name, _ := z.TagName()
			if skipTags[string(name)] {
				depth++
			}
		case html.EndTagToken:
			b.WriteString(raw)
			name, _ := z.TagName()
			if skipTags[string(name)] && depth > 0 {
				depth--
			}
		default:
			b.WriteString(raw)
		}
	}
	return b.String()
}

func (n *Normalizer) rewrite(b *strings.Builder, text string) {
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		b.WriteString(text[last:loc[0]])
		match := text[loc[0]:loc[1]]
		if a, ok := n.anchor(match); ok {
			b.WriteString(a)
		} else {
			b.WriteString(match)
		}
		last = loc[1]
	}
	b.WriteString(text[last:])
}

// anchor builds the replacement markup for one match.
func (n *Normalizer) anchor(match string) (string, bool) {
	target := html.UnescapeString(match)
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(target))
	b.WriteString(`"`)
	if n.class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(n.class))
		b.WriteString(`"`)
	}
	b.WriteString(` target="_blank" rel="noopener noreferrer">`)
	b.WriteString(html.EscapeString(n.Label(u.Hostname())))
	b.WriteString(`</a>`)
	return b.String(), true
}
