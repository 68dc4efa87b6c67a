package present

import (
	"errors"
	"io"

	"github.com/mithrel/blogview/internal/present/format"
	"github.com/mithrel/blogview/internal/render"
	"github.com/mithrel/blogview/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeHTML
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Width      int
}

// ParseMode parses a string like "plain", "pretty", "json", "html", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "html":
		return ModeHTML, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

func (m Mode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModeJSON:
		return "json"
	case ModeHTML:
		return "html"
	case ModeTUI:
		return "tui"
	default:
		return "plain"
	}
}

// RenderPost writes a fetched post in the requested mode. The TUI is driven
// by a loader and is started through tui.Run instead.
func RenderPost(w io.Writer, r *render.Renderer, key api.Key, p api.Post, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONPost(w, p, opts.JSONIndent)
	case ModeHTML:
		return r.RenderPost(w, key, p)
	case ModePretty:
		out, err := Pretty(r, p, opts.Width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case ModeTUI:
		return errors.New("tui output needs an interactive terminal")
	default:
		return format.WritePlainPost(w, p)
	}
}

// Pretty renders the post for a terminal: its processed HTML is turned back
// into markdown and styled with glamour.
func Pretty(r *render.Renderer, p api.Post, width int) (string, error) {
	desc, err := render.Markdown(string(r.Body(p.Description)))
	if err != nil {
		return "", err
	}
	content, err := render.Markdown(string(r.Body(p.Content)))
	if err != nil {
		return "", err
	}
	return format.PrettyPost(p, desc, content, width)
}
