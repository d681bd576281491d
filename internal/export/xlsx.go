package export

import (
	"io"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Покупки"

// XLSXRenderer writes the shopping list as a single-sheet workbook.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Filename() string { return "Покупки.xlsx" }

func (r *XLSXRenderer) Render(w io.Writer, items []service.ShoppingItem) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	headers := []interface{}{"Ингредиент", "Единица измерения", "Количество"}
	if err := f.SetSheetRow(xlsxSheet, "A1", &headers); err != nil {
		return err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{item.Name, item.Unit, item.Amount}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "C", 20); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
