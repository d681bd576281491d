package export

import (
	_ "embed"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Layout of the shopping list page, in points from the top left corner of A4.
const (
	pdfTitle      = "СПИСОК ПОКУПОК"
	pdfTitleX     = 200.0
	pdfTitleY     = 42.0
	pdfLineX      = 100.0
	pdfFirstLineY = 92.0
	pdfLineStep   = 30.0
	pdfBottom     = 812.0
	pdfFontSize   = 14.0
	pdfFontFamily = "ShoppingListFont"

	embeddedFontFamily = "DejaVuSansCondensed"
)

// embeddedFont has Cyrillic glyphs and is used when no font is configured.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var embeddedFont []byte

// PDFRenderer draws the shopping list on A4 pages.
type PDFRenderer struct {
	fontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Filename() string { return "Покупки.pdf" }

func (r *PDFRenderer) Render(w io.Writer, items []service.ShoppingItem) error {
	pdf, err := r.draw(items)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func (r *PDFRenderer) draw(items []service.ShoppingItem) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	if err := r.setFont(pdf); err != nil {
		return nil, err
	}

	for i, page := range pages(items) {
		pdf.AddPage()
		if i == 0 {
			pdf.Text(pdfTitleX, pdfTitleY, pdfTitle)
		}
		y := pdfFirstLineY
		for _, item := range page {
			pdf.Text(pdfLineX, y, item.Line())
			y += pdfLineStep
		}
	}
	return pdf, pdf.Error()
}

// pages splits items into the lines that fit on each page. There is always
// at least one page.
func pages(items []service.ShoppingItem) [][]service.ShoppingItem {
	perPage := int((pdfBottom-pdfFirstLineY)/pdfLineStep) + 1
	out := [][]service.ShoppingItem{}
	for len(items) > perPage {
		out = append(out, items[:perPage])
		items = items[perPage:]
	}
	return append(out, items)
}

// setFont loads the configured TTF font and falls back to the embedded one
// when the path is empty or the file cannot be used.
func (r *PDFRenderer) setFont(pdf *fpdf.Fpdf) error {
	if r.fontPath != "" {
		data, err := os.ReadFile(r.fontPath)
		if err == nil {
			pdf.AddUTF8FontFromBytes(pdfFontFamily, "", data)
			if pdf.Ok() {
				pdf.SetFont(pdfFontFamily, "", pdfFontSize)
				return nil
			}
			err = pdf.Error()
			pdf.ClearError()
		}
		logging.Warn("shopping list font unavailable, using embedded font", err)
	}

	pdf.AddUTF8FontFromBytes(embeddedFontFamily, "", embeddedFont)
	pdf.SetFont(embeddedFontFamily, "", pdfFontSize)
	return pdf.Error()
}
