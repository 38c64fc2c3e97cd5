package export

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes records field for field as an indented array.
func WriteJSON[T any](w io.Writer, records []T) error {
	if records == nil {
		records = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
