package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// CategoryRepo manages per-owner categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// FindByNameTx looks up a category by name for one owner, matching
// case-insensitively. Returns nil when absent.
func (r *CategoryRepo) FindByNameTx(ctx context.Context, tx *sql.Tx, userID int64, name string) (*model.Category, error) {
	row := tx.QueryRowContext(ctx, `
	SELECT category_id, user_id, name, type FROM categories
	WHERE user_id = ? AND name = ? COLLATE NOCASE`,
		userID, name)

	var c model.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("finding category %q: %w", name, err)
	}
	return &c, nil
}

// CreateTx inserts a category inside an open sql transaction.
func (r *CategoryRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID int64, name, ctype string) (int64, error) {
	if ctype == "" {
		ctype = "expense"
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO categories(user_id, name, type) VALUES(?, ?, ?)`,
		userID, name, ctype)
	if err != nil {
		return 0, fmt.Errorf("creating category %q: %w", name, err)
	}
	return res.LastInsertId()
}

// ListByUser returns the owner's categories ordered by name.
func (r *CategoryRepo) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT category_id, user_id, name, type FROM categories
	WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
