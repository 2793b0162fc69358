package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverissimo/ustbudget/internal/audit"
	"github.com/dverissimo/ustbudget/internal/audit/store"
	"github.com/dverissimo/ustbudget/internal/budget"
	budgetstore "github.com/dverissimo/ustbudget/internal/budget/store"
	"github.com/dverissimo/ustbudget/internal/config"
	"github.com/dverissimo/ustbudget/internal/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	_ = godotenv.Load("../../../.env")

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	return db
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedChanges creates a draft budget and pushes two audited mutations through
// the budget store, the only writer of the ledger.
func seedChanges(t *testing.T, db *sql.DB) (budgetID, itemID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	budgets := budgetstore.New(db)

	b := &budget.Budget{
		ID:              uuid.New(),
		Number:          "ORC/2026/" + uuid.NewString() + "/000001",
		ProjectID:       uuid.New(),
		ContractID:      uuid.New(),
		UnitPrice:       d("150.00"),
		IssueDate:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:          budget.StatusDraft,
		Version:         1,
		DiscountPercent: decimal.Zero,
		CreatedAt:       time.Now().UTC(),
	}

	item, err := b.AddItem(uuid.New(), d("2.0000"), d("8"), "")
	require.NoError(t, err)

	itemID = item.ID

	require.NoError(t, budgets.CreateBudget(ctx, b))
	t.Cleanup(func() { _ = budgets.DeleteBudget(ctx, b.ID) })

	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	previousHours, err := b.UpdateItemHours(itemID, d("10"))
	require.NoError(t, err)
	require.NoError(t, budgets.UpdateBudget(ctx, b, []audit.Entry{{
		ID:            uuid.New(),
		ChangeKind:    audit.ChangeItemHours,
		BudgetID:      b.ID,
		ItemID:        &itemID,
		PreviousValue: previousHours,
		NewValue:      d("10"),
		Timestamp:     base,
		Reason:        "re-estimated",
	}}))

	previousDiscount, err := b.UpdateDiscount(d("10"))
	require.NoError(t, err)
	require.NoError(t, budgets.UpdateBudget(ctx, b, []audit.Entry{{
		ID:            uuid.New(),
		ChangeKind:    audit.ChangeBudgetDiscount,
		BudgetID:      b.ID,
		PreviousValue: previousDiscount,
		NewValue:      d("10"),
		Timestamp:     base.Add(time.Minute),
	}}))

	return b.ID, itemID
}

func TestStore_ListByBudget(t *testing.T) {
	db := testDB(t)
	s := store.New(db)

	budgetID, itemID := seedChanges(t, db)

	entries, err := s.ListByBudget(context.Background(), budgetID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Oldest first.
	first, second := entries[0], entries[1]

	assert.Equal(t, audit.ChangeItemHours, first.ChangeKind)
	require.NotNil(t, first.ItemID)
	assert.Equal(t, itemID, *first.ItemID)
	assert.True(t, d("8").Equal(first.PreviousValue))
	assert.True(t, d("10").Equal(first.NewValue))
	assert.Equal(t, "re-estimated", first.Reason)

	assert.Equal(t, audit.ChangeBudgetDiscount, second.ChangeKind)
	assert.Nil(t, second.ItemID)
	assert.True(t, d("0").Equal(second.PreviousValue))
	assert.True(t, second.Timestamp.After(first.Timestamp))
}

func TestStore_ListByItem(t *testing.T) {
	db := testDB(t)
	s := store.New(db)

	budgetID, itemID := seedChanges(t, db)

	entries, err := s.ListByItem(context.Background(), itemID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ChangeItemHours, entries[0].ChangeKind)
	assert.Equal(t, budgetID, entries[0].BudgetID)
}

// TestStore_LedgerOutlivesBudget: deleting a budget leaves its audit trail in
// place.
func TestStore_LedgerOutlivesBudget(t *testing.T) {
	db := testDB(t)
	s := store.New(db)

	budgetID, _ := seedChanges(t, db)

	budgets := budgetstore.New(db)
	require.NoError(t, budgets.DeleteBudget(context.Background(), budgetID))

	entries, err := s.ListByBudget(context.Background(), budgetID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStore_ListUnknownBudget(t *testing.T) {
	s := store.New(testDB(t))

	entries, err := s.ListByBudget(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
