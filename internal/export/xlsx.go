package export

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteXLSX writes a single sheet: bold header row, then the rows.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6DEF0"}},
	})
	if err != nil {
		return err
	}

	rows := append([][]string{t.Headers}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// sheetName strips characters Excel rejects and caps the length.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "Dados"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
