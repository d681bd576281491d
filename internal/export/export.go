// Package export renders an aggregated shopping list as a downloadable file.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pageza/foodgram/backend/internal/service"
)

// Format is a supported export file format.
type Format string

const (
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
)

// Renderer writes a shopping list in one format.
type Renderer interface {
	Render(w io.Writer, items []service.ShoppingItem) error
	ContentType() string
	Filename() string
}

// ParseFormat maps a query value to a Format. Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", PDF:
		return PDF, nil
	case XLSX:
		return XLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Exporter picks the renderer for a format.
type Exporter struct {
	renderers map[Format]Renderer
}

// NewExporter creates an Exporter. fontPath optionally points at a TTF font
// with Cyrillic glyphs for PDF output; empty uses the embedded font.
func NewExporter(fontPath string) *Exporter {
	return &Exporter{renderers: map[Format]Renderer{
		PDF:  NewPDFRenderer(fontPath),
		XLSX: NewXLSXRenderer(),
	}}
}

// Renderer returns the renderer for f.
func (e *Exporter) Renderer(f Format) Renderer {
	if r, ok := e.renderers[f]; ok {
		return r
	}
	return e.renderers[PDF]
}
