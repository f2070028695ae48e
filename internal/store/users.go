package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// UserRepo manages owner records.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user and returns its id.
func (r *UserRepo) Create(ctx context.Context, username, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users(username, email) VALUES(?, ?)`, username, email)
	if err != nil {
		return 0, fmt.Errorf("creating user %q: %w", username, err)
	}
	return res.LastInsertId()
}

// FindByUsername returns the named user, or nil when absent.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, username, email FROM users WHERE username = ?`, username)

	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user %q: %w", username, err)
	}
	return &u, nil
}
