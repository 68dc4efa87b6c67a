package linkify

import "strings"

// defaultLabels maps a bare host (no leading "www.") to the link text shown for it.
var defaultLabels = map[string]string{
	"youtube.com":  "Watch on YouTube",
	"github.com":   "View on GitHub",
	"linkedin.com": "View on LinkedIn",
	"twitter.com":  "View on Twitter",
}

// DefaultLabels returns a copy of the built-in host label table.
func DefaultLabels() map[string]string {
	out := make(map[string]string, len(defaultLabels))
	for k, v := range defaultLabels {
		out[k] = v
	}
	return out
}

// Host normalizes a URL host for label lookup: lower-case, one leading "www." removed.
func Host(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "www.")
}

// Labels returns a copy of the effective host label table.
func (n *Normalizer) Labels() map[string]string {
	out := make(map[string]string, len(n.labels))
	for k, v := range n.labels {
		out[k] = v
	}
	return out
}

// Class returns the class attribute set on generated anchors.
func (n *Normalizer) Class() string { return n.class }

// Label returns the link text for host. Unknown hosts label themselves.
func (n *Normalizer) Label(host string) string {
	host = Host(host)
	if l, ok := n.labels[host]; ok {
		return l
	}
	return host
}
