package extract

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"questionnaire/internal/model"
)

// XLSX reads the first worksheet of an Office Open XML workbook.
type XLSX struct{}

// NewXLSX returns an XLSX row extractor.
func NewXLSX() *XLSX { return &XLSX{} }

// ExtractRows returns one row per non-blank data row of the first sheet.
func (x *XLSX) ExtractRows(ctx context.Context, path string) ([]model.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []model.Row{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromRecords(records), nil
}
