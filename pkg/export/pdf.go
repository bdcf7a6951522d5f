package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0
	pdfLineH     = 5.0
)

// RenderPDF lays the table out on landscape A4 pages. Cells wrap, and the
// header row is repeated on each new page.
func RenderPDF(table Table) ([]byte, error) {
	if err := table.check(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, table.Title, "", 1, "L", false, 0, "")
	}
	if table.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, table.Subtitle, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	colWidth := pdfPageWidth / float64(len(table.Headers))
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		for _, h := range table.Headers {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	for _, row := range table.Rows {
		lines := 1
		for _, cell := range row {
			if n := len(pdf.SplitLines([]byte(cell), colWidth-2)); n > lines {
				lines = n
			}
		}
		rowHeight := float64(lines) * pdfLineH
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}

		x, y := pdf.GetXY()
		for i, cell := range row {
			pdf.Rect(x+float64(i)*colWidth, y, colWidth, rowHeight, "D")
			pdf.SetXY(x+float64(i)*colWidth, y)
			pdf.MultiCell(colWidth, pdfLineH, cell, "", "L", false)
		}
		pdf.SetXY(x, y+rowHeight)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
