package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarveTable(t *testing.T) {
	text := "Acme Bank Statement\n" +
		"Account 1234, October 2025\n" +
		"\n" +
		"Date          Description              Amount\n" +
		"21/10/2025    UPI-BIGBASKET-BLR        -1234.56\n" +
		"22/10/2025    NEFT SALARY OCT          85000.00\n" +
		"\n" +
		"End of statement\n"

	rows := carveTable(text)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, rows[0])
	assert.Equal(t, []string{"22/10/2025", "NEFT SALARY OCT", "85000.00"}, rows[2])
}

func TestCarveTable_PicksLongestBlock(t *testing.T) {
	text := "Name          Branch\n" +
		"Jane          MG Road\n" +
		"\n" +
		"Date        Amount\n" +
		"21/10/2025  100.00\n" +
		"22/10/2025  200.00\n" +
		"23/10/2025  300.00\n"

	rows := carveTable(text)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Amount"}, rows[0])
}

func TestCarveTable_NoTable(t *testing.T) {
	assert.Nil(t, carveTable("Dear customer,\nyour statement is attached.\n"))
	assert.Nil(t, carveTable(""))
}

func TestCarveTable_SingleWideLine(t *testing.T) {
	// One line with columns is not a table; two consecutive are required.
	assert.Nil(t, carveTable("Date          Amount\nno columns here\n"))
}

func TestReadPDF_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-ガラクタ not really a pdf"), 0o644))

	_, err := ReadPDF(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 10))
	assert.Equal(t, "abcde", truncateText("abcdefgh", 5))
}
