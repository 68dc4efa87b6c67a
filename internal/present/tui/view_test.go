package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/blogview/internal/loader"
	"github.com/mithrel/blogview/pkg/api"
)

func plainRender(p api.Post, width int) (string, error) {
	return p.Title + "\n" + p.Content, nil
}

func step(t *testing.T, m tea.Model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	require.True(t, ok)
	return mm, cmd
}

func TestViewStartsLoading(t *testing.T) {
	m := newModel(api.Key{ID: "1", Slug: "a"}, plainRender)
	assert.Contains(t, m.View(), "Loading...")
}

func TestViewShowsPost(t *testing.T) {
	key := api.Key{ID: "1", Slug: "a"}
	m := newModel(key, plainRender)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	post := api.Post{ID: "1", Title: "Hello", Content: "Body text"}
	m, cmd := step(t, m, stateMsg(loader.State{Key: key, Post: &post}))
	assert.Nil(t, cmd)

	out := m.View()
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "Body text")
	assert.Contains(t, out, "q quit")
	assert.NotContains(t, out, "Loading...")
}

func TestViewPostArrivesBeforeWindowSize(t *testing.T) {
	key := api.Key{ID: "1"}
	m := newModel(key, plainRender)
	post := api.Post{ID: "1", Title: "Early"}
	m, _ = step(t, m, stateMsg(loader.State{Key: key, Post: &post}))
	assert.Empty(t, m.View())

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})
	assert.Contains(t, m.View(), "Early")
}

func TestViewNotFound(t *testing.T) {
	key := api.Key{ID: "404"}
	m := newModel(key, plainRender)
	m, _ = step(t, m, stateMsg(loader.State{Key: key}))
	assert.Contains(t, m.View(), "Post not found")
}

func TestViewRenderError(t *testing.T) {
	key := api.Key{ID: "1"}
	m := newModel(key, func(api.Post, int) (string, error) { return "", errors.New("bad markdown") })
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	post := api.Post{ID: "1"}
	m, _ = step(t, m, stateMsg(loader.State{Key: key, Post: &post}))
	assert.Contains(t, m.View(), "bad markdown")
}

func TestViewReloadShowsSpinnerAgain(t *testing.T) {
	key := api.Key{ID: "1"}
	m := newModel(key, plainRender)
	post := api.Post{ID: "1", Title: "Hello"}
	m, _ = step(t, m, stateMsg(loader.State{Key: key, Post: &post}))
	m, cmd := step(t, m, stateMsg(loader.State{Key: key, Loading: true}))
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Loading...")
}

func TestViewQuit(t *testing.T) {
	m := newModel(api.Key{ID: "1"}, plainRender)
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := step(t, m, k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
