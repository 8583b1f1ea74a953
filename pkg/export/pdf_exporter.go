package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 277.0
	labelWidth  = 32.0
	lineHeight  = 5.0
	cellPadding = 1.5
)

// PDFExporter renders a Grid as a landscape table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the grid title and one bordered cell per slot.
func (e *PDFExporter) Render(grid Grid) ([]byte, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	colWidth := (pageWidth - labelWidth) / float64(len(grid.Columns))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(labelWidth, 8, tr(grid.Corner), "1", 0, "C", true, 0, "")
	for _, column := range grid.Columns {
		pdf.CellFormat(colWidth, 8, tr(column), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range grid.Rows {
		lines := 1
		for _, cell := range row.Cells {
			if len(cell) > lines {
				lines = len(cell)
			}
		}
		height := float64(lines)*lineHeight + 2*cellPadding

		x, y := pdf.GetXY()
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(labelWidth, height, tr(row.Label), "1", 0, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)

		for i, cell := range row.Cells {
			cx := x + labelWidth + float64(i)*colWidth
			pdf.Rect(cx, y, colWidth, height, "D")
			for j, line := range cell {
				pdf.SetXY(cx, y+cellPadding+float64(j)*lineHeight)
				pdf.CellFormat(colWidth, lineHeight, tr(line), "", 0, "C", false, 0, "")
			}
		}
		pdf.SetXY(x, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
