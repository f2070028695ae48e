// Package reader decodes uploaded statement files (CSV, XLSX, XLS, PDF)
// into a raw tabular structure, independent of semantic meaning.
package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ErrEmptyFile is returned when a file decodes to zero data rows.
var ErrEmptyFile = errors.New("statement file has no data rows")

// ErrUnsupportedFormat is returned when a file cannot be opened as a
// recognized statement container.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

// NoTableError is returned by the PDF reader when no table could be
// extracted from the first page. It carries the extracted page text so the
// caller can show it for manual inspection.
type NoTableError struct {
	Text string
}

func (e *NoTableError) Error() string {
	return "no table found in PDF; raw text extracted for inspection"
}

// Issue records a malformed-but-recoverable problem in the input.
// Readers never fail on malformed rows; they report them here.
type Issue struct {
	Line    int
	Message string
}

// Result is the output of a format reader: a raw table plus any issues
// encountered while decoding it.
type Result struct {
	Table  *model.RawTable
	Issues []Issue
}

// Read opens path and dispatches to the reader for its extension.
func Read(path string) (*Result, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
		}
		defer f.Close()
		return ReadXLSX(f)
	case ".xls":
		return ReadXLS(path)
	case ".pdf":
		return ReadPDF(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// tableFromRows builds a RawTable treating the first row as the header.
// Short rows are padded later via RawTable.Cell; fully empty rows are
// dropped.
func tableFromRows(rows [][]string) (*model.RawTable, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var data [][]string
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		data = append(data, row)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	return &model.RawTable{Headers: headers, Rows: data}, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
