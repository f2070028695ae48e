package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyNoise strips currency symbols, thousands separators and spaces.
var currencyNoise = regexp.MustCompile(`[₹$€£¥,\s]`)

// ParseAmount converts a raw cell value to a signed decimal.
// Sign conventions, applied after symbol stripping:
//   - "(1,234.56)"   -> -1234.56 (parenthesized = negative)
//   - "1,234.56 DR"  -> -1234.56 (trailing debit marker)
//   - "1,234.56 CR"  ->  1234.56 (trailing credit marker)
//
// Zero is permitted here; the commit engine rejects zero-amount rows.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "CREDIT"):
		s = s[:len(s)-len("CREDIT")]
	case strings.HasSuffix(upper, "DEBIT"):
		negative = true
		s = s[:len(s)-len("DEBIT")]
	case strings.HasSuffix(upper, "CR"):
		s = s[:len(s)-len("CR")]
	case strings.HasSuffix(upper, "DR"):
		negative = true
		s = s[:len(s)-len("DR")]
	}

	s = currencyNoise.ReplaceAllString(s, "")
	if s == "" || s == "-" {
		return decimal.Zero, fmt.Errorf("no numeric value in amount %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	if negative && d.IsPositive() {
		d = d.Neg()
	}
	return d, nil
}
