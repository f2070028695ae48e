package reader

import (
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX decodes the first sheet of an .xlsx workbook. Cell values come
// back as excelize formats them, so dates and numbers arrive as display
// text for the normalizer to interpret.
func ReadXLSX(r io.Reader) (*Result, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedFormat)
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	table, err := tableFromRows(rows)
	if err != nil {
		return nil, err
	}
	return &Result{Table: table}, nil
}

// ReadXLS decodes the first sheet of a legacy .xls workbook.
func ReadXLS(path string) (*Result, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	sheet, err := wb.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedFormat)
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var row []string
		for _, col := range xlsRow.GetCols() {
			row = append(row, col.GetString())
		}
		rows = append(rows, row)
	}

	table, err := tableFromRows(rows)
	if err != nil {
		return nil, err
	}
	return &Result{Table: table}, nil
}
