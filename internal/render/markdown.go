package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Markdown converts rendered post markup into markdown for terminal output.
func Markdown(h string) (string, error) {
	h = strings.ReplaceAll(h, "\r\n", "\n")
	md, err := htmltomarkdown.ConvertString(h)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
