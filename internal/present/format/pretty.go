package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/blogview/pkg/api"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginLeft(2)
	metaStyle  = lipgloss.NewStyle().Faint(true).MarginLeft(2)
)

// PrettyPost renders a styled header plus description and content (already
// in markdown) through glamour.
func PrettyPost(p api.Post, description, content string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	var md strings.Builder
	if d := strings.TrimSpace(description); d != "" {
		md.WriteString(d)
		md.WriteString("\n\n---\n\n")
	}
	md.WriteString(strings.TrimSpace(content))
	md.WriteByte('\n')

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	body, err := r.Render(md.String())
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var b strings.Builder
	b.WriteByte('\n')
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteByte('\n')
	meta := byline(p)
	if !p.CreatedAt.IsZero() {
		if meta != "" {
			meta += " · "
		}
		meta += p.CreatedAt.Local().Format(time.DateOnly)
	}
	if meta != "" {
		b.WriteString(metaStyle.Render(meta))
		b.WriteByte('\n')
	}
	b.WriteString(body)
	return b.String(), nil
}
