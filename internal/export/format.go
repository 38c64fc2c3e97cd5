// Package export turns record sets into downloadable CSV, JSON, PDF and
// XLSX documents, and reads CSV/JSON files back for import.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/report"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Rich formats (PDF, XLSX) are a paid-plan feature.
func (f Format) Rich() bool {
	return f == FormatPDF || f == FormatXLSX
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename: <entity>-<YYYY-MM-DD>.<ext>
func Filename(entity string, f Format, day time.Time) string {
	return fmt.Sprintf("%s-%s.%s", entity, day.Format("2006-01-02"), f)
}

// Exportable is a record that knows its column names and cell values.
type Exportable interface {
	ExportHeaders() []string
	ExportRow() []string
}

type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable lays records out as rows. An empty set still gets headers.
func NewTable[T Exportable](title string, records []T) Table {
	var zero T
	t := Table{
		Title:   title,
		Headers: zero.ExportHeaders(),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, r.ExportRow())
	}
	return t
}

type Options struct {
	// BOM prefixes CSV output with a UTF-8 byte order mark (Excel).
	BOM bool

	// PDF only.
	Subtitle    string
	Groups      []report.Grouping
	GeneratedAt time.Time
	// Total overrides the grand total (default: total of the first group).
	Total *decimal.Decimal
}

// Encode writes records to w in format f.
func Encode[T Exportable](w io.Writer, f Format, title string, records []T, opts Options) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, NewTable(title, records), opts.BOM)
	case FormatPDF:
		return WritePDF(w, NewTable(title, records), opts)
	case FormatXLSX:
		return WriteXLSX(w, NewTable(title, records))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
