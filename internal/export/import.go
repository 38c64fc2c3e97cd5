package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrMissingHeader   = errors.New("missing header row")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
)

// Row is one CSV line keyed by (lower-cased) header name.
type Row struct {
	Line int
	Data map[string]string
}

func (r Row) Get(header string) string {
	return r.Data[strings.ToLower(header)]
}

// ReadCSV parses a header-mapped CSV. A leading UTF-8 BOM is dropped, blank
// lines are skipped and short lines leave the missing columns empty.
func ReadCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(body) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(strings.NewReader(string(body)))
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// *csv.ParseError already names the line
			return nil, fmt.Errorf("read csv: %w", err)
		}

		// file line where the record starts; blank lines and quoted line
		// breaks are counted
		line, _ := cr.FieldPos(0)
		row := Row{Line: line, Data: make(map[string]string, len(header))}
		empty := true
		for i, h := range header {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			if v != "" {
				empty = false
			}
			row.Data[h] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// DecodeJSON reads a JSON array of records, the shape WriteJSON produces.
func DecodeJSON[T any](r io.Reader) ([]T, error) {
	var out []T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
