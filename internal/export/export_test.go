package export

import (
	"bytes"
	"fmt"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pageza/foodgram/backend/internal/service"
)

var sampleItems = []service.ShoppingItem{
	{Name: "Salt", Unit: "g", Amount: 5},
	{Name: "мука", Unit: "г", Amount: 500},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", PDF, false},
		{"pdf", PDF, false},
		{"XLSX", XLSX, false},
		{" xlsx ", XLSX, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestExporterRenderer(t *testing.T) {
	e := NewExporter("")
	assert.Equal(t, "Покупки.pdf", e.Renderer(PDF).Filename())
	assert.Equal(t, "Покупки.xlsx", e.Renderer(XLSX).Filename())
	assert.Equal(t, "application/pdf", e.Renderer(Format("unknown")).ContentType())
}

// utf16BE is how text drawn with a UTF-8 font appears in an uncompressed
// page stream. Parentheses are escaped there, so callers avoid them.
func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestPDFCyrillicText(t *testing.T) {
	for _, fontPath := range []string{"", "does/not/exist.ttf"} {
		t.Run(fmt.Sprintf("font %q", fontPath), func(t *testing.T) {
			pdf, err := NewPDFRenderer(fontPath).draw(sampleItems)
			require.NoError(t, err)
			pdf.SetCompression(false)

			var buf bytes.Buffer
			require.NoError(t, pdf.Output(&buf))
			out := buf.Bytes()
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
			assert.True(t, bytes.Contains(out, utf16BE("СПИСОК ПОКУПОК")), "title missing")
			assert.True(t, bytes.Contains(out, utf16BE("мука")), "ingredient missing")
			assert.True(t, bytes.Contains(out, utf16BE("— [500]")), "amount missing")
		})
	}
}

func TestPDFPages(t *testing.T) {
	items := make([]service.ShoppingItem, 80)
	for i := range items {
		items[i] = service.ShoppingItem{Name: fmt.Sprintf("item %d", i), Unit: "g", Amount: int64(i)}
	}

	split := pages(items)
	require.Len(t, split, 4)
	assert.Len(t, split[0], 25)
	assert.Len(t, split[3], 5)
	assert.Len(t, pages(nil), 1)

	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer("").Render(&buf, items))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestXLSXRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXRenderer().Render(&buf, sampleItems))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Ингредиент", "Единица измерения", "Количество"}, rows[0])
	assert.Equal(t, []string{"Salt", "g", "5"}, rows[1])
	assert.Equal(t, []string{"мука", "г", "500"}, rows[2])
}
