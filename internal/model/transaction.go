package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedTransaction is one statement row after type conversion.
// Immutable once produced; user edits layer on top via the overlay.
type NormalizedTransaction struct {
	ID   string // stable per-session row identifier
	Line int    // 1-based data row number in the source file

	Date        time.Time // calendar date, UTC midnight
	Description string
	Amount      decimal.Decimal // negative = outflow, positive = inflow

	Merchant      string
	AccountLabel  string
	CategoryLabel string
}

// PersistedTransaction is the durable transaction record.
type PersistedTransaction struct {
	ID         int64
	UserID     int64
	AccountID  int64
	CategoryID *int64

	Date        time.Time
	Merchant    string
	Description string
	Amount      decimal.Decimal

	IsManual     bool
	IsInvestment bool

	CreatedAt time.Time
}

// Category groups transactions for one owner.
type Category struct {
	ID     int64
	UserID int64
	Name   string
	Type   string // "expense" or "income"
}

// Account is a bank account owned by a user.
type Account struct {
	ID     int64
	UserID int64
	Name   string
	Type   string
}

// Tag is a free-form label attachable to transactions.
type Tag struct {
	ID    int64
	Label string
}

// User is the owner reference for all imported data.
type User struct {
	ID       int64
	Username string
	Email    string
}
