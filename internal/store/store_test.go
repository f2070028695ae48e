package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func seedOwner(t *testing.T, db *sql.DB) (userID, accountID int64) {
	t.Helper()
	ctx := context.Background()

	userID, err := NewUserRepo(db).Create(ctx, "tester", "tester@localhost")
	require.NoError(t, err)
	accountID, err = NewAccountRepo(db).Create(ctx, userID, "Checking", "bank")
	require.NoError(t, err)
	return userID, accountID
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, Migrate(db))
}

func TestTransactionRepo_InsertAndList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, accountID := seedOwner(t, db)
	repo := NewTransactionRepo(db)

	var ids []int64
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		for day := 20; day <= 24; day++ {
			id, err := repo.InsertTx(ctx, tx, model.PersistedTransaction{
				UserID:      userID,
				AccountID:   accountID,
				Date:        time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC),
				Merchant:    "Bigbasket",
				Description: "UPI-BIGBASKET",
				Amount:      decimal.RequireFromString("-1234.56"),
			})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, ids, 5)

	got, err := repo.ListByUserDateRange(ctx,
		userID,
		time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 23, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, "2025-10-21", first.Date.Format("2006-01-02"))
	assert.Equal(t, "-1234.56", first.Amount.StringFixed(2))
	assert.Equal(t, "UPI-BIGBASKET", first.Description)
	assert.Nil(t, first.CategoryID)
	assert.False(t, first.IsManual)

	n, err := repo.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestTransactionRepo_RollbackLeavesNothing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, accountID := seedOwner(t, db)
	repo := NewTransactionRepo(db)

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := repo.InsertTx(ctx, tx, model.PersistedTransaction{
			UserID:      userID,
			AccountID:   accountID,
			Date:        time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC),
			Description: "first",
			Amount:      decimal.RequireFromString("-10.00"),
		})
		require.NoError(t, err)

		// Violates the account foreign key; the whole tx must roll back.
		_, err = repo.InsertTx(ctx, tx, model.PersistedTransaction{
			UserID:      userID,
			AccountID:   99999,
			Date:        time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC),
			Description: "second",
			Amount:      decimal.RequireFromString("-20.00"),
		})
		return err
	})
	require.Error(t, err)

	n, err := repo.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCategoryRepo_CaseInsensitiveFind(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, _ := seedOwner(t, db)
	repo := NewCategoryRepo(db)

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := repo.CreateTx(ctx, tx, userID, "Groceries", "")
		return err
	})
	require.NoError(t, err)

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		cat, err := repo.FindByNameTx(ctx, tx, userID, "GROCERIES")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, "Groceries", cat.Name)
		assert.Equal(t, "expense", cat.Type)

		missing, err := repo.FindByNameTx(ctx, tx, userID, "Travel")
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)

	cats, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
}

func TestCategoryRepo_ScopedToOwner(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, _ := seedOwner(t, db)
	otherID, err := NewUserRepo(db).Create(ctx, "other", "other@localhost")
	require.NoError(t, err)

	repo := NewCategoryRepo(db)
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := repo.CreateTx(ctx, tx, userID, "Groceries", "")
		return err
	})
	require.NoError(t, err)

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		cat, err := repo.FindByNameTx(ctx, tx, otherID, "Groceries")
		require.NoError(t, err)
		assert.Nil(t, cat)
		return nil
	})
	require.NoError(t, err)
}

func TestAccountRepo_FindOrCreate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, accountID := seedOwner(t, db)
	repo := NewAccountRepo(db)

	found, err := repo.FindOrCreate(ctx, userID, "Checking", "bank")
	require.NoError(t, err)
	assert.Equal(t, accountID, found)

	created, err := repo.FindOrCreate(ctx, userID, "Savings", "bank")
	require.NoError(t, err)
	assert.NotEqual(t, accountID, created)
}

func TestUserRepo_FindByUsername(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	id, err := users.Create(ctx, "jane", "jane@localhost")
	require.NoError(t, err)

	u, err := users.FindByUsername(ctx, "jane")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)

	missing, err := users.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
