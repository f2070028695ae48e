package normalizer

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried strictly in order. The order matters for ambiguous
// dates: day-first layouts win over month-first ones, so "01/02/2025" is
// 1 February. Non-padded layouts accept both "2/1/2025" and "21/10/2025".
var dateLayouts = []string{
	"2/1/2006",       // DD/MM/YYYY
	"2006-1-2",       // YYYY-MM-DD
	"2-1-2006",       // DD-MM-YYYY
	"1/2/2006",       // MM/DD/YYYY
	"2006/1/2",       // YYYY/MM/DD
	"2.1.2006",       // DD.MM.YYYY
	"1-2-2006",       // MM-DD-YYYY
	"2 Jan 2006",     // DD Mon YYYY
	"2 January 2006", // DD Month YYYY
}

// fallbackLayouts are the permissive last resort after the candidate list.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2/1/06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate converts a raw cell value to a calendar date (UTC midnight),
// trying each candidate layout in order. There is no default: a value no
// layout accepts is an error and the row must be reported, never guessed.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t), nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// toDate drops any time component, keeping the calendar date in UTC.
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
