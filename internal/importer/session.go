// Package importer ties the pipeline together: one Session per uploaded
// statement, and the Engine that commits its rows atomically.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-dev/fintrack/internal/dedupe"
	"github.com/fintrack-dev/fintrack/internal/mapper"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/normalizer"
	"github.com/fintrack-dev/fintrack/internal/overlay"
	"github.com/fintrack-dev/fintrack/internal/reader"
)

// Session holds one interactive import from upload to commit or cancel.
// It is single-caller state; nothing here is shared between sessions.
type Session struct {
	ID         string
	SourceFile string

	Table      *model.RawTable
	Issues     []reader.Issue
	Mapping    mapper.Mapping
	Confidence map[mapper.Field]mapper.MatchKind

	Rows      []model.NormalizedTransaction
	RowErrors []normalizer.RowError
	Edits     *overlay.Overlay
}

// NewSession starts a session from a reader result, auto-detecting the
// column mapping from the table headers.
func NewSession(sourceFile string, res *reader.Result) *Session {
	det := mapper.Detect(res.Table.Headers)
	return &Session{
		ID:         uuid.NewString(),
		SourceFile: sourceFile,
		Table:      res.Table,
		Issues:     res.Issues,
		Mapping:    det.Mapping,
		Confidence: det.Confidence,
		Edits:      overlay.New(),
	}
}

// SetMapping replaces the detected mapping wholesale. Call Normalize
// afterwards to re-convert the table.
func (s *Session) SetMapping(m mapper.Mapping) {
	s.Mapping = m
}

// Normalize converts the raw table using the session's mapping (after any
// manual overrides). Previously normalized rows and their edits are
// discarded, since row identities change with the mapping.
func (s *Session) Normalize() error {
	res, err := normalizer.NormalizeTable(s.Table, s.Mapping)
	if err != nil {
		return err
	}
	s.Rows = res.Rows
	s.RowErrors = res.Errors
	s.Edits = overlay.New()
	return nil
}

// RowByLine finds a normalized row by its source line number.
func (s *Session) RowByLine(line int) (model.NormalizedTransaction, bool) {
	for _, r := range s.Rows {
		if r.Line == line {
			return r, true
		}
	}
	return model.NormalizedTransaction{}, false
}

// EffectiveRows composes every normalized row with the session's overlay.
func (s *Session) EffectiveRows() []model.NormalizedTransaction {
	out := make([]model.NormalizedTransaction, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = overlay.Effective(r, s.Edits)
	}
	return out
}

// Cancel discards session state without persisting anything.
func (s *Session) Cancel() {
	s.Rows = nil
	s.RowErrors = nil
	s.Edits.ClearAll()
}

// TransactionLister is the slice of the store consumed by duplicate
// checking.
type TransactionLister interface {
	ListByUserDateRange(ctx context.Context, userID int64, from, to time.Time) ([]model.PersistedTransaction, error)
}

// CheckDuplicates runs the detector over the effective rows, querying the
// owner's existing transactions once for the whole batch window. Verdicts
// are keyed by row ID and are advisory only.
func CheckDuplicates(ctx context.Context, det *dedupe.Detector, repo TransactionLister, userID int64, windowDays int, rows []model.NormalizedTransaction) (map[string]dedupe.Verdict, error) {
	verdicts := make(map[string]dedupe.Verdict, len(rows))
	if len(rows) == 0 {
		return verdicts, nil
	}

	from, to := rows[0].Date, rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.Before(from) {
			from = r.Date
		}
		if r.Date.After(to) {
			to = r.Date
		}
	}
	pad := time.Duration(windowDays) * 24 * time.Hour
	existing, err := repo.ListByUserDateRange(ctx, userID, from.Add(-pad), to.Add(pad))
	if err != nil {
		return nil, fmt.Errorf("loading existing transactions: %w", err)
	}

	for _, r := range rows {
		verdicts[r.ID] = det.Check(r, existing)
	}
	return verdicts, nil
}
