package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFontFamily  = "timetable"
	pageWidthMM    = 277.0
	labelColumnMM  = 28.0
	minSlotWidthMM = 6.0
)

// PDFExporter renders datasets into a landscape table. Japanese text needs a UTF-8 TrueType
// font; without one the core Helvetica font is used and non Latin-1 runes are replaced.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath may be empty.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF document with the dataset title and a table body. The first header
// is treated as the row label column.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 10)

	family, translate := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if e.fontPath != "" {
		if _, err := os.Stat(e.fontPath); err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
		pdf.AddUTF8Font(pdfFontFamily, "", e.fontPath)
		family, translate = pdfFontFamily, func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont(family, "", 13)
		pdf.CellFormat(0, 9, translate(data.Title), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	widths := columnWidths(len(data.Headers))
	pdf.SetFont(family, "", 7)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 6, translate(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 6)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 6, translate(row[header]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = pageWidthMM
		return widths
	}
	widths[0] = labelColumnMM
	slot := (pageWidthMM - labelColumnMM) / float64(columns-1)
	if slot < minSlotWidthMM {
		slot = minSlotWidthMM
	}
	for i := 1; i < columns; i++ {
		widths[i] = slot
	}
	return widths
}
