package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadCSV decodes a CSV statement. Bytes that are not valid UTF-8 are
// re-decoded as Latin-1 before parsing, mirroring how bank exports from
// older systems are encoded.
func ReadCSV(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding latin-1 csv: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	res := &Result{}
	var rows [][]string
	line := 0
	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Issues = append(res.Issues, Issue{Line: line, Message: err.Error()})
			continue
		}
		rows = append(rows, rec)
	}

	table, err := tableFromRows(rows)
	if err != nil {
		return nil, err
	}
	res.Table = table
	return res, nil
}
