// Package mapper infers which raw statement column plays which canonical
// transaction field, based on recognized header names.
package mapper

import (
	"fmt"
	"strings"
)

// Field is a canonical transaction attribute.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldAmount      Field = "amount"
	FieldMerchant    Field = "merchant"
	FieldAccount     Field = "account"
	FieldCategory    Field = "category"
)

// fieldOrder is the priority in which fields claim headers. A header
// assigned to an earlier field is never reassigned to a later one.
var fieldOrder = []Field{
	FieldDate, FieldDescription, FieldAmount,
	FieldMerchant, FieldAccount, FieldCategory,
}

// RequiredFields must all resolve for a mapping to be valid.
var RequiredFields = []Field{FieldDate, FieldDescription, FieldAmount}

// fieldPatterns holds the recognized header substrings per field.
var fieldPatterns = map[Field][]string{
	FieldDate: {
		"date", "transaction_date", "txn_date", "posting_date", "value_date",
		"dt", "datetime",
	},
	FieldDescription: {
		"description", "merchant", "narration", "details", "particulars",
		"party", "payee", "memo", "reference", "remark", "note",
	},
	FieldAmount: {
		"amount", "value", "debit", "credit", "transaction_amount",
		"txn_amount", "amt", "withdrawal", "deposit",
	},
	FieldMerchant: {
		"merchant", "vendor", "shop", "store", "supplier", "party_name",
		"brand", "company",
	},
	FieldAccount: {
		"account", "account_no", "account_number", "acc_no", "bank_account",
		"acct",
	},
	FieldCategory: {
		"category", "type", "class", "group", "tag", "classification",
	},
}

// debit/credit pair vocabulary, used to recognize statements that split the
// amount across two columns.
var (
	debitKeywords  = []string{"debit", "withdrawal"}
	creditKeywords = []string{"credit", "deposit"}
)

// MatchKind grades how a header matched a field's pattern set.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchKeyword
	MatchExact
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchKeyword:
		return "keyword"
	default:
		return "none"
	}
}

// Mapping assigns raw column headers to canonical fields. When the source
// splits the amount across a debit and a credit column, DebitColumn and
// CreditColumn are set instead of Columns[FieldAmount].
type Mapping struct {
	Columns      map[Field]string
	DebitColumn  string
	CreditColumn string
}

// HasSplitAmount reports whether the amount comes from a debit/credit pair.
func (m Mapping) HasSplitAmount() bool {
	return m.DebitColumn != "" && m.CreditColumn != ""
}

// Header returns the raw header assigned to field, or "".
func (m Mapping) Header(f Field) string {
	return m.Columns[f]
}

// Set assigns a header to a field, overriding any auto-detected value.
// Manual overrides always take precedence over detection.
func (m *Mapping) Set(f Field, header string) {
	if m.Columns == nil {
		m.Columns = make(map[Field]string)
	}
	m.Columns[f] = header
}

// SetSplitAmount designates two raw columns as the debit/credit pair.
func (m *Mapping) SetSplitAmount(debit, credit string) {
	m.DebitColumn = debit
	m.CreditColumn = credit
	if m.Columns != nil {
		delete(m.Columns, FieldAmount)
	}
}

// MissingColumnsError names the required fields that did not resolve.
type MissingColumnsError struct {
	Fields []Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("required columns not mapped: %s", strings.Join(names, ", "))
}

// Detection is the result of auto-detecting a mapping.
type Detection struct {
	Mapping    Mapping
	Confidence map[Field]MatchKind
}

// Detect infers a best-effort mapping from the table's headers. For each
// field, in priority order, the first unclaimed header matching the field's
// pattern set wins. This is a heuristic; callers must allow manual override.
func Detect(headers []string) Detection {
	det := Detection{
		Mapping:    Mapping{Columns: make(map[Field]string)},
		Confidence: make(map[Field]MatchKind),
	}

	claimed := make(map[string]bool)
	for _, f := range fieldOrder {
		for _, h := range headers {
			if claimed[h] {
				continue
			}
			kind := matchHeader(h, fieldPatterns[f])
			if kind == MatchNone {
				continue
			}
			det.Mapping.Columns[f] = h
			det.Confidence[f] = kind
			claimed[h] = true
			break
		}
	}

	// A leftover debit/credit pair means the amount is split in two.
	debit, credit := findPair(headers, claimed, det.Mapping.Columns[FieldAmount])
	if debit != "" && credit != "" {
		det.Mapping.SetSplitAmount(debit, credit)
		det.Confidence[FieldAmount] = MatchKeyword
	}

	return det
}

// matchHeader grades header against patterns: exact synonym beats substring.
func matchHeader(header string, patterns []string) MatchKind {
	h := normalizeHeader(header)
	if h == "" {
		return MatchNone
	}
	for _, p := range patterns {
		if h == p {
			return MatchExact
		}
	}
	for _, p := range patterns {
		if strings.Contains(h, p) {
			return MatchKeyword
		}
	}
	return MatchNone
}

// findPair locates a debit-flavored and a credit-flavored header. The
// header already claimed as the single amount column may participate, in
// which case the pair replaces it.
func findPair(headers []string, claimed map[string]bool, amountHeader string) (debit, credit string) {
	usable := func(h string) bool {
		return !claimed[h] || h == amountHeader
	}
	for _, h := range headers {
		if !usable(h) || debit != "" {
			continue
		}
		if containsAny(normalizeHeader(h), debitKeywords) {
			debit = h
		}
	}
	for _, h := range headers {
		if !usable(h) || h == debit || credit != "" {
			continue
		}
		if containsAny(normalizeHeader(h), creditKeywords) {
			credit = h
		}
	}
	if debit == "" || credit == "" {
		return "", ""
	}
	return debit, credit
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// Validate checks that every required field resolves to a header present in
// headers. The amount requirement is satisfied by either a single amount
// column or a debit/credit pair.
func (m Mapping) Validate(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []Field
	for _, f := range RequiredFields {
		if f == FieldAmount && m.HasSplitAmount() {
			if !present[m.DebitColumn] || !present[m.CreditColumn] {
				missing = append(missing, f)
			}
			continue
		}
		h := m.Columns[f]
		if h == "" || !present[h] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Fields: missing}
	}
	return nil
}
