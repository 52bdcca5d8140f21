package extract

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/extrame/xls"

	"questionnaire/internal/model"
)

// XLS reads the first worksheet of a legacy BIFF (.xls) workbook.
type XLS struct {
	// Charset is passed to the decoder for non-Unicode strings; empty means utf-8.
	Charset string
}

// NewXLS returns an XLS row extractor.
func NewXLS() *XLS { return &XLS{} }

// ExtractRows returns one row per non-blank data row of the first sheet.
func (x *XLS) ExtractRows(ctx context.Context, path string) ([]model.Row, error) {
	charset := x.Charset
	if charset == "" {
		charset = "utf-8"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, charset)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open workbook: no Workbook stream")
	}
	if wb.NumSheets() == 0 {
		return []model.Row{}, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("first worksheet is unreadable")
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := sheetRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for c := range rec {
			rec[c] = row.Col(c)
		}
		records = append(records, rec)
	}
	return rowsFromRecords(records), nil
}

// sheetRow returns nil for rows absent from the sheet; the library dereferences
// the missing row and panics.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
