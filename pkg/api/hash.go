package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the post content.
// Every field is written with a null delimiter, timestamps in RFC3339Nano (UTC).
func (p Post) Hash() string {
	h := blake3.New()

	for _, s := range []string{
		p.ID,
		p.Author,
		p.AuthorImage,
		p.AuthorOccupation,
		p.Title,
		p.Description,
		p.Content,
		p.ImageURL,
	} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	if !p.CreatedAt.IsZero() {
		h.Write([]byte(p.CreatedAt.UTC().Format(timeRFC3339Nano)))
	}
	h.Write([]byte{0})

	if !p.UpdatedAt.IsZero() {
		h.Write([]byte(p.UpdatedAt.UTC().Format(timeRFC3339Nano)))
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

const timeRFC3339Nano = "2006-01-02T15:04:05.999999999Z07:00"
