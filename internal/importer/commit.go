package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

// State tracks a commit through its lifecycle. A batch either lands whole
// or not at all; Failed means validation stopped it before any write,
// RolledBack means a write error undid the transaction.
type State int

const (
	StatePending State = iota
	StateValidating
	StateWriting
	StateCommitted
	StateFailed
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidating:
		return "validating"
	case StateWriting:
		return "writing"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CommitParams names the owner and destination account for a batch.
// TagLabels, when set, are attached to every transaction in the batch.
type CommitParams struct {
	UserID    int64
	AccountID int64
	TagLabels []string
}

// RowFailure reports why a single row could not be persisted.
type RowFailure struct {
	Line    int
	RowID   string
	Message string
}

// Result summarizes a commit attempt.
type Result struct {
	State         State
	SuccessCount  int
	ErrorCount    int
	RowFailures   []RowFailure
	NewCategories []string
}

// Engine persists batches of normalized rows. Safe to reuse across
// batches; state is per-call.
type Engine struct {
	db           *sql.DB
	transactions *store.TransactionRepo
	categories   *store.CategoryRepo
	tags         *store.TagRepo
	log          *slog.Logger
}

func NewEngine(db *sql.DB, log *slog.Logger) *Engine {
	return &Engine{
		db:           db,
		transactions: store.NewTransactionRepo(db),
		categories:   store.NewCategoryRepo(db),
		tags:         store.NewTagRepo(db),
		log:          log,
	}
}

// Commit validates then writes a batch inside a single database
// transaction. Validation failures reject the whole batch before any
// write; a write failure rolls back everything already written.
func (e *Engine) Commit(ctx context.Context, rows []model.NormalizedTransaction, params CommitParams) (Result, error) {
	res := Result{State: StateValidating}

	for _, r := range rows {
		if r.Date.IsZero() {
			res.RowFailures = append(res.RowFailures, RowFailure{
				Line: r.Line, RowID: r.ID, Message: "missing date",
			})
		}
		if r.Amount.IsZero() {
			res.RowFailures = append(res.RowFailures, RowFailure{
				Line: r.Line, RowID: r.ID, Message: "zero amount",
			})
		}
	}
	if len(res.RowFailures) > 0 {
		res.State = StateFailed
		res.ErrorCount = len(rows)
		e.log.Warn("commit rejected in validation",
			"failures", len(res.RowFailures), "rows", len(rows))
		return res, fmt.Errorf("validation failed for %d of %d rows", len(res.RowFailures), len(rows))
	}

	res.State = StateWriting
	newCategories := make(map[string]bool)

	err := store.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		tagIDs := make([]int64, 0, len(params.TagLabels))
		for _, label := range params.TagLabels {
			id, err := e.tags.FindOrCreateTx(ctx, tx, label)
			if err != nil {
				return fmt.Errorf("resolving tag %q: %w", label, err)
			}
			tagIDs = append(tagIDs, id)
		}

		for _, r := range rows {
			var categoryID *int64
			if r.CategoryLabel != "" {
				cat, err := e.categories.FindByNameTx(ctx, tx, params.UserID, r.CategoryLabel)
				if err != nil {
					return fmt.Errorf("line %d: looking up category: %w", r.Line, err)
				}
				if cat != nil {
					categoryID = &cat.ID
				} else {
					id, err := e.categories.CreateTx(ctx, tx, params.UserID, r.CategoryLabel, "")
					if err != nil {
						return fmt.Errorf("line %d: creating category: %w", r.Line, err)
					}
					newCategories[r.CategoryLabel] = true
					categoryID = &id
				}
			}

			merchant := r.Merchant
			if merchant == "" {
				merchant = r.Description
			}

			txnID, err := e.transactions.InsertTx(ctx, tx, model.PersistedTransaction{
				UserID:      params.UserID,
				AccountID:   params.AccountID,
				CategoryID:  categoryID,
				Date:        r.Date,
				Merchant:    merchant,
				Description: r.Description,
				Amount:      r.Amount,
			})
			if err != nil {
				return fmt.Errorf("line %d: inserting transaction: %w", r.Line, err)
			}
			for _, tagID := range tagIDs {
				if err := e.tags.AttachTx(ctx, tx, txnID, tagID); err != nil {
					return fmt.Errorf("line %d: %w", r.Line, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		res.State = StateRolledBack
		res.SuccessCount = 0
		res.ErrorCount = len(rows)
		res.NewCategories = nil
		e.log.Error("commit rolled back", "rows", len(rows), "error", err)
		return res, fmt.Errorf("committing batch: %w", err)
	}

	res.State = StateCommitted
	res.SuccessCount = len(rows)
	for name := range newCategories {
		res.NewCategories = append(res.NewCategories, name)
	}
	e.log.Info("batch committed",
		"rows", res.SuccessCount, "new_categories", len(res.NewCategories))
	return res, nil
}
