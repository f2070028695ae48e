package overlay

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func sampleTxn() model.NormalizedTransaction {
	return model.NormalizedTransaction{
		ID:          "row-1",
		Line:        1,
		Date:        time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC),
		Description: "Upi-Bigbasket",
		Amount:      decimal.RequireFromString("-1234.56"),
		Merchant:    "Bigbasket",
	}
}

func TestEffective_EmptyOverlayIsIdentity(t *testing.T) {
	txn := sampleTxn()
	assert.Equal(t, txn, Effective(txn, New()))
	assert.Equal(t, txn, Effective(txn, nil))
}

func TestSet_FieldPrecedence(t *testing.T) {
	o := New()
	require.NoError(t, o.Set("row-1", "merchant", "big basket"))
	require.NoError(t, o.Set("row-1", "category", "groceries"))
	require.NoError(t, o.Set("row-1", "amount", "₹1,500.00 DR"))
	require.NoError(t, o.Set("row-1", "date", "22/10/2025"))

	got := Effective(sampleTxn(), o)

	assert.Equal(t, "Big Basket", got.Merchant)
	assert.Equal(t, "Groceries", got.CategoryLabel)
	assert.Equal(t, "-1500.00", got.Amount.StringFixed(2))
	assert.Equal(t, "2025-10-22", got.Date.Format("2006-01-02"))

	// Untouched fields pass through.
	assert.Equal(t, "Upi-Bigbasket", got.Description)
	assert.Equal(t, 1, got.Line)
}

func TestSet_DoesNotTouchOtherRows(t *testing.T) {
	o := New()
	require.NoError(t, o.Set("row-2", "merchant", "someone else"))

	assert.Equal(t, sampleTxn(), Effective(sampleTxn(), o))
	assert.Equal(t, 1, o.Len())
}

func TestSet_TypeValidation(t *testing.T) {
	o := New()

	assert.Error(t, o.Set("row-1", "amount", "not a number"))
	assert.Error(t, o.Set("row-1", "date", "yesterday"))
	assert.Error(t, o.Set("row-1", "balance", "100"))

	// Failed sets leave no override behind.
	_, ok := o.Get("row-1")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	o := New()
	require.NoError(t, o.Set("row-1", "merchant", "edited"))
	require.NoError(t, o.Set("row-2", "merchant", "edited too"))

	o.Clear("row-1")
	assert.Equal(t, sampleTxn(), Effective(sampleTxn(), o))
	assert.Equal(t, 1, o.Len())

	o.ClearAll()
	assert.Equal(t, 0, o.Len())
}

func TestSetDateSetAmount(t *testing.T) {
	o := New()
	d := time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC)
	a := decimal.RequireFromString("42.00")

	o.SetDate("row-1", d)
	o.SetAmount("row-1", a)

	got := Effective(sampleTxn(), o)
	assert.True(t, got.Date.Equal(d))
	assert.True(t, got.Amount.Equal(a))
}
