package dedupe

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func candidate(d int, amount, desc string) model.NormalizedTransaction {
	return model.NormalizedTransaction{
		ID:          "cand",
		Date:        day(d),
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
	}
}

func persisted(id int64, d int, amount, desc string) model.PersistedTransaction {
	return model.PersistedTransaction{
		ID:          id,
		Date:        day(d),
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
	}
}

func TestCheck_ExactDuplicate(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(7, 21, "-1234.56", "UPI-BIGBASKET-BLR-9012345"),
	}

	v := det.Check(candidate(21, "-1234.56", "UPI-BIGBASKET-BLR-9012345"), existing)

	assert.True(t, v.Duplicate)
	assert.Equal(t, int64(7), v.MatchedID)
	assert.InDelta(t, 1.0, v.Similarity, 0.001)
}

func TestCheck_PrefixMatchWithDifferentSuffix(t *testing.T) {
	// Same first 10 characters, different transaction references.
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(3, 21, "-1234.56", "UPI-BIGBASKET-BLR-1111111"),
	}

	v := det.Check(candidate(21, "-1234.56", "UPI-BIGBASKET-BLR-9012345"), existing)

	assert.True(t, v.Duplicate)
	assert.Equal(t, int64(3), v.MatchedID)
}

func TestCheck_DateWindow(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(1, 21, "-100.00", "UPI-SWIGGY-ORDER"),
	}

	// One day off: still within the window.
	assert.True(t, det.Check(candidate(22, "-100.00", "UPI-SWIGGY-ORDER"), existing).Duplicate)
	// Two days off: outside.
	assert.False(t, det.Check(candidate(23, "-100.00", "UPI-SWIGGY-ORDER"), existing).Duplicate)
}

func TestCheck_AmountTolerance(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(1, 21, "-100.00", "UPI-SWIGGY-ORDER"),
	}

	// Within 1%.
	assert.True(t, det.Check(candidate(21, "-100.99", "UPI-SWIGGY-ORDER"), existing).Duplicate)
	// Just past 1%.
	assert.False(t, det.Check(candidate(21, "-102.00", "UPI-SWIGGY-ORDER"), existing).Duplicate)
}

func TestCheck_NearZeroUsesAbsoluteEpsilon(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(1, 21, "0.50", "REFUND ADJUSTMENT X"),
	}

	assert.True(t, det.Check(candidate(21, "0.51", "REFUND ADJUSTMENT X"), existing).Duplicate)
	assert.False(t, det.Check(candidate(21, "0.60", "REFUND ADJUSTMENT X"), existing).Duplicate)
}

func TestCheck_ShortDescriptionsNeedExactMatch(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(1, 21, "-100.00", "ATM"),
	}

	assert.True(t, det.Check(candidate(21, "-100.00", "ATM"), existing).Duplicate)
	assert.False(t, det.Check(candidate(21, "-100.00", "ATX"), existing).Duplicate)
}

func TestCheck_CaseAndWhitespaceFolded(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(1, 21, "-100.00", "upi  swiggy order 8821"),
	}

	assert.True(t, det.Check(candidate(21, "-100.00", "UPI SWIGGY ORDER 8821"), existing).Duplicate)
}

func TestCheck_SimilarityReportedForNonDuplicates(t *testing.T) {
	det := NewDetector(DefaultThresholds())
	existing := []model.PersistedTransaction{
		persisted(1, 21, "-100.00", "AMAZON RETAIL ORDER 42"),
	}

	v := det.Check(candidate(21, "-100.00", "SWIGGY FOOD ORDER 99"), existing)

	assert.False(t, v.Duplicate)
	assert.Greater(t, v.Similarity, 0.0)
	assert.Less(t, v.Similarity, 1.0)
}

func TestCheck_NoExisting(t *testing.T) {
	det := NewDetector(Thresholds{})
	v := det.Check(candidate(21, "-100.00", "ANYTHING"), nil)

	assert.False(t, v.Duplicate)
	assert.Zero(t, v.MatchedID)
}

func TestNewDetector_ZeroValueFallsBackToDefaults(t *testing.T) {
	det := NewDetector(Thresholds{})
	assert.Equal(t, DefaultThresholds(), det.t)
}
