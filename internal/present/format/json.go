package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/blogview/pkg/api"
)

func WriteJSONPost(w io.Writer, p api.Post, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(p)
}
