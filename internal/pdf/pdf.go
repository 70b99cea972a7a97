// Package pdf renders extracted test records as a small PDF test plan for
// reviewers who do not build the LaTeX documents.
package pdf

import (
	"errors"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/cigate/internal/javadoc"
	"github.com/hyperifyio/cigate/internal/markup"
)

// Write renders records under a title heading to outPath. Only the fields
// the schema requires are printed.
func Write(outPath, title string, schema javadoc.Schema, records []javadoc.MethodRecord) error {
	if strings.TrimSpace(outPath) == "" {
		return errors.New("pdf: output path not set")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	heading := strings.TrimSpace(title)
	if heading == "" {
		heading = "Unit tests"
	}
	pdf.CellFormat(0, 8, tr(heading), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, rec := range records {
		if i > 0 {
			pdf.Ln(3)
		}
		pdf.SetFont("Courier", "B", 11)
		pdf.CellFormat(0, 6, tr(rec.Method+"()"), "B", 1, "L", false, 0, "")
		for _, f := range schema.Required {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(45, 5, tr(f.Label()), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(markup.ToText(rec.Get(f))), "", "L", false)
		}
	}
	return pdf.OutputFileAndClose(outPath)
}
