package reader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Txn Date", "Narration", "Debit", "Credit"},
		{"21/10/2025", "UPI-BIGBASKET", "1234.56", ""},
		{"22/10/2025", "NEFT SALARY", "", "85000.00"},
	})

	res, err := ReadXLSX(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Txn Date", "Narration", "Debit", "Credit"}, res.Table.Headers)
	require.Len(t, res.Table.Rows, 2)
	assert.Equal(t, "UPI-BIGBASKET", res.Table.Cell(0, 1))
	assert.Equal(t, "85000.00", res.Table.Cell(1, 3))
}

func TestReadXLSX_HeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Date", "Description", "Amount"},
	})

	_, err := ReadXLSX(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(bytes.NewReader([]byte("this is not a zip")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadXLS_NotAWorkbook(t *testing.T) {
	_, err := ReadXLS("../../testdata/simple.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
