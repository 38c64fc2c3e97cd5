package export

import (
	"encoding/csv"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the header line then one line per row. Fields holding a
// comma, quote or line break are quoted, with inner quotes doubled.
func WriteCSV(w io.Writer, t Table, bom bool) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
