package reader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
)

// textPreviewLimit bounds the raw-text fallback attached to NoTableError.
const textPreviewLimit = 2000

// ReadPDF attempts table extraction from the first page of a PDF. When no
// table can be carved out of the page text, it returns a NoTableError
// carrying the extracted text so the caller can show it to the user.
func ReadPDF(path string) (res *Result, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, r)
		}
	}()

	doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrUnsupportedFormat)
	}

	page := doc.Page(1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("%w: pdf first page is empty", ErrUnsupportedFormat)
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("extracting pdf text: %w", err)
	}

	rows := carveTable(text)
	if rows == nil {
		return nil, &NoTableError{Text: truncateText(text, textPreviewLimit)}
	}

	table, terr := tableFromRows(rows)
	if terr != nil {
		return nil, &NoTableError{Text: truncateText(text, textPreviewLimit)}
	}
	return &Result{Table: table}, nil
}

var columnGap = regexp.MustCompile(`\s{2,}`)

// carveTable splits layout text into a table: lines whose cells are
// separated by runs of 2+ spaces, where at least two consecutive lines
// agree on the column count. Returns nil when no such block exists.
func carveTable(text string) [][]string {
	var best [][]string
	var current [][]string

	for _, line := range strings.Split(text, "\n") {
		cells := columnGap.Split(strings.TrimSpace(line), -1)
		if len(cells) >= 2 && strings.TrimSpace(line) != "" {
			if len(current) > 0 && len(current[len(current)-1]) != len(cells) {
				if len(current) > len(best) {
					best = current
				}
				current = nil
			}
			current = append(current, cells)
			continue
		}
		if len(current) > len(best) {
			best = current
		}
		current = nil
	}
	if len(current) > len(best) {
		best = current
	}

	if len(best) < 2 {
		return nil
	}
	return best
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
