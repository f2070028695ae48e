// Package normalizer converts raw statement cells into canonical typed
// values: calendar dates, signed decimal amounts, and cleaned text.
package normalizer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/mapper"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// PlaceholderDescription substitutes for a description that is empty after
// cleaning. Empty descriptions are the one recoverable required field.
const PlaceholderDescription = "Imported Transaction"

// RowError reports a row excluded from the normalized set.
type RowError struct {
	Line    int // 1-based data row number
	Field   mapper.Field
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d %s: %s", e.Line, e.Field, e.Message)
}

// Result holds the normalized rows plus the rows that failed.
type Result struct {
	Rows   []model.NormalizedTransaction
	Errors []RowError
}

// NormalizeTable converts every raw row using the mapping. The mapping is
// validated first; an invalid mapping aborts the whole table. Individual
// row failures (bad date, bad amount, debit/credit conflict) exclude only
// that row and are reported in Result.Errors.
func NormalizeTable(table *model.RawTable, m mapper.Mapping) (Result, error) {
	if err := m.Validate(table.Headers); err != nil {
		return Result{}, err
	}

	col := func(f mapper.Field) int { return table.HeaderIndex(m.Header(f)) }
	dateCol := col(mapper.FieldDate)
	descCol := col(mapper.FieldDescription)
	amountCol := col(mapper.FieldAmount)
	merchantCol := col(mapper.FieldMerchant)
	accountCol := col(mapper.FieldAccount)
	categoryCol := col(mapper.FieldCategory)
	debitCol := table.HeaderIndex(m.DebitColumn)
	creditCol := table.HeaderIndex(m.CreditColumn)

	var res Result
	for i := range table.Rows {
		line := i + 1

		date, err := ParseDate(table.Cell(i, dateCol))
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Field: mapper.FieldDate, Message: err.Error()})
			continue
		}

		var amount decimal.Decimal
		if m.HasSplitAmount() {
			amount, err = combineDebitCredit(table.Cell(i, debitCol), table.Cell(i, creditCol))
		} else {
			amount, err = ParseAmount(table.Cell(i, amountCol))
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Field: mapper.FieldAmount, Message: err.Error()})
			continue
		}

		desc := CleanText(table.Cell(i, descCol))
		if desc == "" {
			desc = PlaceholderDescription
		}

		txn := model.NormalizedTransaction{
			ID:          uuid.NewString(),
			Line:        line,
			Date:        date,
			Description: desc,
			Amount:      amount,
		}
		if merchantCol >= 0 {
			txn.Merchant = CleanText(table.Cell(i, merchantCol))
		}
		if accountCol >= 0 {
			txn.AccountLabel = CleanText(table.Cell(i, accountCol))
		}
		if categoryCol >= 0 {
			txn.CategoryLabel = CleanText(table.Cell(i, categoryCol))
		}
		res.Rows = append(res.Rows, txn)
	}
	return res, nil
}

// combineDebitCredit folds a debit/credit column pair into one signed
// amount: debit negative, credit positive. Both non-zero is a data error.
func combineDebitCredit(debitRaw, creditRaw string) (decimal.Decimal, error) {
	debit, err := parseOptionalAmount(debitRaw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit: %w", err)
	}
	credit, err := parseOptionalAmount(creditRaw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit: %w", err)
	}

	switch {
	case !debit.IsZero() && !credit.IsZero():
		return decimal.Zero, fmt.Errorf("debit and credit both present")
	case !debit.IsZero():
		return debit.Abs().Neg(), nil
	default:
		return credit.Abs(), nil
	}
}

// parseOptionalAmount treats an empty cell as zero.
func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	if isBlank(raw) {
		return decimal.Zero, nil
	}
	return ParseAmount(raw)
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '-' {
			return false
		}
	}
	return true
}
