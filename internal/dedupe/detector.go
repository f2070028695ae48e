// Package dedupe decides whether a candidate transaction is a likely
// duplicate of one already persisted. Verdicts are advisory: the caller
// chooses to skip, force-import, or prompt.
package dedupe

import (
	"regexp"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Thresholds are the heuristic constants for duplicate detection.
type Thresholds struct {
	DateWindowDays  int             // candidate window: ± this many calendar days
	AmountTolerance decimal.Decimal // relative tolerance, e.g. 0.01 for ±1%
	PrefixLength    int             // description prefix compared case-insensitively
}

// DefaultThresholds returns ±1 day, ±1%, 10-character prefix.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DateWindowDays:  1,
		AmountTolerance: decimal.NewFromFloat(0.01),
		PrefixLength:    10,
	}
}

// Near-zero amounts switch to an absolute epsilon so the relative test
// stays stable.
var (
	nearZeroCutoff  = decimal.NewFromInt(1)
	nearZeroEpsilon = decimal.NewFromFloat(0.01)
)

// Verdict is the per-candidate result. Similarity is the best levenshtein
// similarity (0..1) seen among window candidates, duplicate or not.
type Verdict struct {
	Duplicate  bool
	MatchedID  int64
	Similarity float64
}

// Detector checks candidates against existing transactions.
type Detector struct {
	t Thresholds
}

// NewDetector creates a detector; zero-value thresholds fall back to the
// defaults.
func NewDetector(t Thresholds) *Detector {
	d := DefaultThresholds()
	if t.DateWindowDays > 0 {
		d.DateWindowDays = t.DateWindowDays
	}
	if t.AmountTolerance.IsPositive() {
		d.AmountTolerance = t.AmountTolerance
	}
	if t.PrefixLength > 0 {
		d.PrefixLength = t.PrefixLength
	}
	return &Detector{t: d}
}

// Check returns a verdict for candidate against existing transactions of
// the same owner. Duplicate requires all three tests to hold against at
// least one existing transaction: date window, amount tolerance, and
// description prefix.
func (d *Detector) Check(candidate model.NormalizedTransaction, existing []model.PersistedTransaction) Verdict {
	v := Verdict{}
	candDesc := foldDescription(candidate.Description)

	for _, ex := range existing {
		if !d.withinWindow(candidate.Date, ex.Date) {
			continue
		}
		if !d.withinTolerance(candidate.Amount, ex.Amount) {
			continue
		}

		exDesc := foldDescription(ex.Description)
		if sim := similarity(candDesc, exDesc); sim > v.Similarity {
			v.Similarity = sim
		}
		if !d.prefixMatch(candDesc, exDesc) {
			continue
		}

		v.Duplicate = true
		v.MatchedID = ex.ID
		return v
	}
	return v
}

func (d *Detector) withinWindow(a, b time.Time) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(d.t.DateWindowDays)*24*time.Hour
}

func (d *Detector) withinTolerance(candidate, existing decimal.Decimal) bool {
	tol := candidate.Abs().Mul(d.t.AmountTolerance)
	if candidate.Abs().LessThan(nearZeroCutoff) {
		tol = nearZeroEpsilon
	}
	return candidate.Sub(existing).Abs().LessThanOrEqual(tol)
}

func (d *Detector) prefixMatch(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	n := d.t.PrefixLength
	if len(ra) < n || len(rb) < n {
		return a == b && a != ""
	}
	return string(ra[:n]) == string(rb[:n])
}

var spaceRun = regexp.MustCompile(`\s+`)

// foldDescription lower-cases and collapses whitespace for comparison.
func foldDescription(s string) string {
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// similarity is 1 - normalized levenshtein distance.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
