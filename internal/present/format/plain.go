package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mithrel/blogview/internal/render"
	"github.com/mithrel/blogview/pkg/api"
)

// WritePlainPost writes the post as plain text: a short header followed by
// description and content with markup stripped. URLs are kept as written.
func WritePlainPost(w io.Writer, p api.Post) error {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteByte('\n')
	if by := byline(p); by != "" {
		b.WriteString(by)
		b.WriteByte('\n')
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Published %s\n", p.CreatedAt.UTC().Format(time.RFC3339))
	}
	for _, s := range []string{p.Description, p.Content} {
		if t := strings.TrimSpace(render.PlainText(s)); t != "" {
			b.WriteByte('\n')
			b.WriteString(t)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func byline(p api.Post) string {
	switch {
	case p.Author != "" && p.AuthorOccupation != "":
		return fmt.Sprintf("by %s (%s)", p.Author, p.AuthorOccupation)
	case p.Author != "":
		return "by " + p.Author
	default:
		return ""
	}
}
