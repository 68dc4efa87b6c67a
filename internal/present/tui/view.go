package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/blogview/internal/loader"
	"github.com/mithrel/blogview/pkg/api"
)

// RenderFunc turns a loaded post into terminal text of the given width.
type RenderFunc func(p api.Post, width int) (string, error)

// stateMsg carries a loader transition into the Bubble Tea loop.
type stateMsg loader.State

var (
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204"))
)

// Run opens the interactive post view for key. The loader is created here so
// its transitions can be forwarded to the program.
func Run(ctx context.Context, newLoader func(...loader.Option) *loader.Loader, key api.Key, render RenderFunc) error {
	var p *tea.Program
	l := newLoader(loader.WithOnChange(func(st loader.State) {
		if p != nil {
			p.Send(stateMsg(st))
		}
	}))
	defer l.Close()

	m := newModel(key, render)
	m.start = func() { l.Update(ctx, key) }
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type model struct {
	key     api.Key
	render  RenderFunc
	start   func()
	state   loader.State
	spinner spinner.Model
	vp      viewport.Model
	ready   bool
	width   int
	height  int
	err     error
}

func newModel(key api.Key, render RenderFunc) model {
	return model{
		key:     key,
		render:  render,
		state:   loader.State{Key: key, Loading: true},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m model) Init() tea.Cmd {
	start := m.start
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if start != nil {
			start()
		}
		return nil
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.KeyMsg:
		switch x.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		if m.ready {
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		h := x.Height - 1 // help line
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.vp = viewport.New(x.Width, h)
			m.ready = true
		} else {
			m.vp.Width = x.Width
			m.vp.Height = h
		}
		m.refresh()
		return m, nil
	case stateMsg:
		m.state = loader.State(x)
		m.refresh()
		if m.state.Loading {
			return m, m.spinner.Tick
		}
		return m, nil
	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh re-renders the post into the viewport after a size or state change.
func (m *model) refresh() {
	if !m.ready || m.state.Post == nil {
		return
	}
	out, err := m.render(*m.state.Post, m.vp.Width)
	m.err = err
	if err != nil {
		return
	}
	m.vp.SetContent(out)
	m.vp.GotoTop()
}

func (m model) View() string {
	switch {
	case m.state.Loading:
		return m.spinner.View() + " Loading..."
	case m.state.Post == nil:
		return errorStyle.Render("Post not found") + "\n" + helpStyle.Render("q quit")
	case m.err != nil:
		return errorStyle.Render(m.err.Error()) + "\n" + helpStyle.Render("q quit")
	case !m.ready:
		return ""
	}
	help := helpStyle.Render(strings.Join([]string{"↑/↓ scroll", "q quit", m.key.String()}, " • "))
	return m.vp.View() + "\n" + help
}
