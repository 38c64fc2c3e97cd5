package export

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/plushify/plushify-api/internal/report"
)

const (
	pdfMargin      = 10.0
	pdfRowHeight   = 6.0
	pdfMaxColChars = 40
	// tables wider than this go landscape
	pdfPortraitCols = 6
)

// WritePDF renders title, generation time, the table and, when given, one
// block of subtotals per grouping followed by the grand total.
func WritePDF(w io.Writer, t Table, opts Options) error {
	orientation := "P"
	if len(t.Headers) > pdfPortraitCols {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	pdf.SetTitle(t.Title, true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetMargins(pdfMargin, pdfMargin+2, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin+2)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Cabeçalho
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if opts.Subtitle != "" {
		pdf.CellFormat(0, 5, tr(opts.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, tr("Gerado em "+generatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := columnWidths(pdf, t)
	drawTable(pdf, tr, t, widths)

	for _, g := range opts.Groups {
		drawGrouping(pdf, tr, g)
	}

	total := opts.Total
	if total == nil && len(opts.Groups) > 0 {
		total = &opts.Groups[0].Total
	}
	if total != nil {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, pdfRowHeight, tr("Total geral: "+total.StringFixed(2)), "T", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

func columnWidths(pdf *fpdf.Fpdf, t Table) []float64 {
	pageW, _ := pdf.GetPageSize()
	avail := pageW - 2*pdfMargin

	n := len(t.Headers)
	if n == 0 {
		return nil
	}

	weights := make([]int, n)
	total := 0
	for i, h := range t.Headers {
		wgt := utf8.RuneCountInString(h)
		for _, row := range t.Rows {
			if i < len(row) {
				wgt = max(wgt, utf8.RuneCountInString(row[i]))
			}
		}
		wgt = min(max(wgt, 4), pdfMaxColChars)
		weights[i] = wgt
		total += wgt
	}

	out := make([]float64, n)
	for i, wgt := range weights {
		out[i] = avail * float64(wgt) / float64(total)
	}
	return out
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 222, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(h), widths[i]), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t Table, widths []float64) {
	if len(widths) == 0 {
		return
	}

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	drawHeader(pdf, tr, t.Headers, widths)
	for _, row := range t.Rows {
		// repete o cabeçalho a cada página
		if pdf.GetY()+pdfRowHeight > pageH-bottom {
			pdf.AddPage()
			drawHeader(pdf, tr, t.Headers, widths)
		}
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(cell), widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(t.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, pdfRowHeight, tr("Nenhum registro encontrado."), "", 1, "L", false, 0, "")
	}
}

func drawGrouping(pdf *fpdf.Fpdf, tr func(string) string, g report.Grouping) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, pdfRowHeight, tr(g.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range g.Lines {
		pdf.CellFormat(100, pdfRowHeight-1, tr(fmt.Sprintf("%s (%d)", line.Label, line.Count)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, pdfRowHeight-1, line.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(100, pdfRowHeight-1, "Subtotal", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, pdfRowHeight-1, g.Total.StringFixed(2), "T", 1, "R", false, 0, "")
}

// fit trims s (already translated to the PDF code page) to the cell width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > limit {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
