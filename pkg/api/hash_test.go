package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPost_Hash(t *testing.T) {
	now := time.Now().UTC()

	basePost := Post{
		ID:          "abc123",
		Author:      "Ada",
		Title:       "My Post",
		Description: "Hello https://github.com/x",
		Content:     "<p>Body</p>",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.Run("identical posts produce identical hashes", func(t *testing.T) {
		p1 := basePost
		p2 := basePost
		assert.Equal(t, p1.Hash(), p2.Hash())
	})

	t.Run("timezone does not matter", func(t *testing.T) {
		p1 := basePost
		p2 := basePost
		p2.CreatedAt = now.In(time.FixedZone("X", 3600))
		assert.Equal(t, p1.Hash(), p2.Hash())
	})

	t.Run("field boundaries are delimited", func(t *testing.T) {
		p1 := basePost
		p1.Author, p1.AuthorImage = "ab", "c"

		p2 := basePost
		p2.Author, p2.AuthorImage = "a", "bc"

		assert.NotEqual(t, p1.Hash(), p2.Hash())
	})

	t.Run("different content produces different hashes", func(t *testing.T) {
		p1 := basePost

		p2 := basePost
		p2.Title = "Different Title"

		p3 := basePost
		p3.Content = "Different body"

		p4 := basePost
		p4.UpdatedAt = now.Add(time.Second)

		assert.NotEqual(t, p1.Hash(), p2.Hash())
		assert.NotEqual(t, p1.Hash(), p3.Hash())
		assert.NotEqual(t, p1.Hash(), p4.Hash())
	})
}

func TestKeyPath(t *testing.T) {
	assert.Equal(t, "/posts/abc123/my-post", Key{ID: "abc123", Slug: "my-post"}.Path())
	assert.Equal(t, "/posts/a%2Fb/hello%20world", Key{ID: "a/b", Slug: "hello world"}.Path())
	assert.Equal(t, "/posts/abc123/", Key{ID: "abc123"}.Path())
	assert.False(t, Key{ID: "  ", Slug: "x"}.Valid())
	assert.True(t, Key{ID: "abc123"}.Valid())
}
