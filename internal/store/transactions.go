package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

const dateFormat = "2006-01-02"

// TransactionRepo persists and queries transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// InsertTx writes one transaction inside an open sql transaction and
// returns its id. All import writes go through here so the whole batch
// shares one atomic unit of work.
func (r *TransactionRepo) InsertTx(ctx context.Context, tx *sql.Tx, t model.PersistedTransaction) (int64, error) {
	res, err := tx.ExecContext(ctx, `
	INSERT INTO transactions(user_id, account_id, category_id, date, merchant, description, amount, is_manual, is_investment)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.AccountID, t.CategoryID, t.Date.Format(dateFormat),
		t.Merchant, t.Description, t.Amount.String(),
		boolToInt(t.IsManual), boolToInt(t.IsInvestment))
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return res.LastInsertId()
}

// ListByUserDateRange returns a user's transactions with date in [from, to]
// inclusive. This feeds the duplicate detector's candidate window.
func (r *TransactionRepo) ListByUserDateRange(ctx context.Context, userID int64, from, to time.Time) ([]model.PersistedTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT transaction_id, user_id, account_id, category_id, date, merchant, description, amount, is_manual, is_investment, created_at
	FROM transactions
	WHERE user_id = ? AND date >= ? AND date <= ?
	ORDER BY date, transaction_id`,
		userID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []model.PersistedTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountByUser returns the user's total transaction count.
func (r *TransactionRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func scanTransaction(rows *sql.Rows) (model.PersistedTransaction, error) {
	var t model.PersistedTransaction
	var category sql.NullInt64
	var date, amount, created string
	var manual, investment int
	if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &category, &date,
		&t.Merchant, &t.Description, &amount, &manual, &investment, &created); err != nil {
		return model.PersistedTransaction{}, fmt.Errorf("scanning transaction: %w", err)
	}
	if category.Valid {
		t.CategoryID = &category.Int64
	}

	d, err := time.Parse(dateFormat, date)
	if err != nil {
		return model.PersistedTransaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Date = d

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return model.PersistedTransaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	t.Amount = amt

	t.IsManual = manual != 0
	t.IsInvestment = investment != 0
	if ts, err := time.Parse("2006-01-02 15:04:05", created); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
