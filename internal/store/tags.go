package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TagRepo manages free-form tags and their transaction associations.
type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{db: db} }

// FindOrCreateTx returns the tag id for label, creating it when absent,
// inside an open sql transaction.
func (r *TagRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, label string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT tag_id FROM tags WHERE label = ? COLLATE NOCASE`, label).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("finding tag %q: %w", label, err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO tags(label) VALUES(?)`, label)
	if err != nil {
		return 0, fmt.Errorf("creating tag %q: %w", label, err)
	}
	return res.LastInsertId()
}

// AttachTx associates a tag with a transaction.
func (r *TagRepo) AttachTx(ctx context.Context, tx *sql.Tx, transactionID, tagID int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO transaction_tags(transaction_id, tag_id) VALUES(?, ?)`,
		transactionID, tagID)
	if err != nil {
		return fmt.Errorf("attaching tag: %w", err)
	}
	return nil
}
