package render

import (
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/mithrel/blogview/internal/linkify"
	"github.com/mithrel/blogview/pkg/api"
)

// fingerprint hashes every setting that changes the rendered page for the
// same post.
func fingerprint(opts Options, links *linkify.Normalizer) string {
	h := blake3.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(opts.SiteBaseURL)
	write(opts.IndexPath)
	write(opts.TwitterHandle)
	write(strconv.FormatBool(opts.Markdown))
	write(strconv.FormatBool(opts.Sanitize))
	write(links.Class())

	labels := links.Labels()
	hosts := make([]string, 0, len(labels))
	for host := range labels {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	for _, host := range hosts {
		write(host)
		write(labels[host])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ETag identifies the page rendered for p: it changes with the post and
// with any rendering setting.
func (r *Renderer) ETag(p api.Post) string {
	h := blake3.New()
	h.Write([]byte(r.version))
	h.Write([]byte{0})
	h.Write([]byte(p.Hash()))
	return `"` + hex.EncodeToString(h.Sum(nil)[:16]) + `"`
}
