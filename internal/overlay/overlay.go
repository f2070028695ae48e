// Package overlay holds per-row user edits applied on top of normalized
// transactions. It never mutates the parsed rows; composition happens in
// Effective.
package overlay

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/normalizer"
)

// Override is a partial per-row edit. Nil fields pass through unchanged.
type Override struct {
	Merchant *string
	Category *string
	Date     *time.Time
	Amount   *decimal.Decimal
}

func (o Override) empty() bool {
	return o.Merchant == nil && o.Category == nil && o.Date == nil && o.Amount == nil
}

// Overlay maps row IDs to their overrides for one import session.
// Created empty on upload, discarded on commit or cancel.
type Overlay struct {
	edits map[string]Override
}

// New returns an empty overlay.
func New() *Overlay {
	return &Overlay{edits: make(map[string]Override)}
}

// Set parses raw into the named field's type and records the override.
// It validates type-correctness only: amount must be numeric, date must be
// a valid calendar date.
func (o *Overlay) Set(rowID, field, raw string) error {
	ov := o.edits[rowID]
	switch field {
	case "merchant":
		v := normalizer.CleanText(raw)
		ov.Merchant = &v
	case "category":
		v := normalizer.CleanText(raw)
		ov.Category = &v
	case "date":
		d, err := normalizer.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("edit date: %w", err)
		}
		ov.Date = &d
	case "amount":
		a, err := normalizer.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("edit amount: %w", err)
		}
		ov.Amount = &a
	default:
		return fmt.Errorf("unknown editable field %q", field)
	}
	o.edits[rowID] = ov
	return nil
}

// SetDate records a date override.
func (o *Overlay) SetDate(rowID string, d time.Time) {
	ov := o.edits[rowID]
	ov.Date = &d
	o.edits[rowID] = ov
}

// SetAmount records an amount override.
func (o *Overlay) SetAmount(rowID string, a decimal.Decimal) {
	ov := o.edits[rowID]
	ov.Amount = &a
	o.edits[rowID] = ov
}

// Get returns the override for a row and whether one exists.
func (o *Overlay) Get(rowID string) (Override, bool) {
	ov, ok := o.edits[rowID]
	if !ok || ov.empty() {
		return Override{}, false
	}
	return ov, true
}

// Clear removes the override for one row.
func (o *Overlay) Clear(rowID string) {
	delete(o.edits, rowID)
}

// ClearAll discards every override.
func (o *Overlay) ClearAll() {
	o.edits = make(map[string]Override)
}

// Len reports how many rows have overrides.
func (o *Overlay) Len() int {
	n := 0
	for _, ov := range o.edits {
		if !ov.empty() {
			n++
		}
	}
	return n
}

// Effective composes a normalized transaction with its override, field by
// field. An empty overlay is the identity.
func Effective(txn model.NormalizedTransaction, o *Overlay) model.NormalizedTransaction {
	if o == nil {
		return txn
	}
	ov, ok := o.Get(txn.ID)
	if !ok {
		return txn
	}
	if ov.Merchant != nil {
		txn.Merchant = *ov.Merchant
	}
	if ov.Category != nil {
		txn.CategoryLabel = *ov.Category
	}
	if ov.Date != nil {
		txn.Date = *ov.Date
	}
	if ov.Amount != nil {
		txn.Amount = *ov.Amount
	}
	return txn
}
