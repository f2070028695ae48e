package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// AccountRepo manages bank accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

// Create inserts an account and returns its id.
func (r *AccountRepo) Create(ctx context.Context, userID int64, name, accountType string) (int64, error) {
	if accountType == "" {
		accountType = "bank"
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO accounts(user_id, name, account_type) VALUES(?, ?, ?)`,
		userID, name, accountType)
	if err != nil {
		return 0, fmt.Errorf("creating account %q: %w", name, err)
	}
	return res.LastInsertId()
}

// FindByName looks up an owner's account by name. Returns nil when absent.
func (r *AccountRepo) FindByName(ctx context.Context, userID int64, name string) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT account_id, user_id, name, account_type FROM accounts
	WHERE user_id = ? AND name = ?`, userID, name)

	var a model.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("finding account %q: %w", name, err)
	}
	return &a, nil
}

// FindOrCreate returns the named account, creating it when absent.
func (r *AccountRepo) FindOrCreate(ctx context.Context, userID int64, name, accountType string) (int64, error) {
	a, err := r.FindByName(ctx, userID, name)
	if err != nil {
		return 0, err
	}
	if a != nil {
		return a.ID, nil
	}
	return r.Create(ctx, userID, name, accountType)
}
