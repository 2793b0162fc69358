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

	"github.com/dverissimo/ustbudget/internal/catalog"
	"github.com/dverissimo/ustbudget/internal/catalog/store"
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

func dptr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func seedNode(t *testing.T, s *store.Store, n *catalog.Node) *catalog.Node {
	t.Helper()

	require.NoError(t, s.CreateNode(context.Background(), n))
	t.Cleanup(func() { _ = s.DeleteNode(context.Background(), n.ID) })

	return n
}

func seedHierarchy(t *testing.T, s *store.Store) (cycle, phase, activity *catalog.Node) {
	t.Helper()

	cycle = seedNode(t, s, &catalog.Node{
		ID:        uuid.New(),
		Name:      "Development",
		Kind:      catalog.KindCycle,
		CreatedAt: time.Now().UTC(),
	})
	phase = seedNode(t, s, &catalog.Node{
		ID:        uuid.New(),
		Name:      "Construction",
		Kind:      catalog.KindPhase,
		ParentID:  &cycle.ID,
		CreatedAt: time.Now().UTC(),
	})
	activity = seedNode(t, s, &catalog.Node{
		ID:                   uuid.New(),
		Name:                 "Interface design",
		Kind:                 catalog.KindActivity,
		ParentID:             &phase.ID,
		ComplexityMultiplier: dptr("2.0000"),
		CreatedAt:            time.Now().UTC(),
	})

	return cycle, phase, activity
}

func TestStore_CreateAndGet(t *testing.T) {
	s := store.New(testDB(t))
	ctx := context.Background()

	_, phase, activity := seedHierarchy(t, s)

	got, err := s.GetNode(ctx, activity.ID)
	require.NoError(t, err)

	assert.Equal(t, "Interface design", got.Name)
	assert.Equal(t, catalog.KindActivity, got.Kind)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, phase.ID, *got.ParentID)
	require.NotNil(t, got.ComplexityMultiplier)
	assert.True(t, decimal.RequireFromString("2.0000").Equal(*got.ComplexityMultiplier))

	// Non-activities come back with no multiplier.
	got, err = s.GetNode(ctx, phase.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ComplexityMultiplier)
}

func TestStore_GetMissing(t *testing.T) {
	s := store.New(testDB(t))

	_, err := s.GetNode(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_ListFilters(t *testing.T) {
	s := store.New(testDB(t))
	ctx := context.Background()

	cycle, phase, activity := seedHierarchy(t, s)

	children, err := s.ListNodes(ctx, catalog.ListFilter{ParentID: &phase.ID})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, activity.ID, children[0].ID)

	kind := catalog.KindPhase
	phases, err := s.ListNodes(ctx, catalog.ListFilter{Kind: &kind, ParentID: &cycle.ID})
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, phase.ID, phases[0].ID)
}

func TestStore_Update(t *testing.T) {
	s := store.New(testDB(t))
	ctx := context.Background()

	_, _, activity := seedHierarchy(t, s)

	activity.Name = "Interface refinement"
	activity.ComplexityMultiplier = dptr("2.5000")
	now := time.Now().UTC()
	activity.UpdatedAt = &now

	require.NoError(t, s.UpdateNode(ctx, activity))

	got, err := s.GetNode(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Interface refinement", got.Name)
	assert.True(t, decimal.RequireFromString("2.5000").Equal(*got.ComplexityMultiplier))
	assert.NotNil(t, got.UpdatedAt)
}

func TestStore_HasChildren(t *testing.T) {
	s := store.New(testDB(t))
	ctx := context.Background()

	cycle, phase, activity := seedHierarchy(t, s)

	hasChildren, err := s.HasChildren(ctx, cycle.ID)
	require.NoError(t, err)
	assert.True(t, hasChildren)

	hasChildren, err = s.HasChildren(ctx, phase.ID)
	require.NoError(t, err)
	assert.True(t, hasChildren)

	hasChildren, err = s.HasChildren(ctx, activity.ID)
	require.NoError(t, err)
	assert.False(t, hasChildren)
}

func TestStore_Delete(t *testing.T) {
	s := store.New(testDB(t))
	ctx := context.Background()

	leaf := seedNode(t, s, &catalog.Node{
		ID:        uuid.New(),
		Name:      "Transition",
		Kind:      catalog.KindCycle,
		CreatedAt: time.Now().UTC(),
	})

	require.NoError(t, s.DeleteNode(ctx, leaf.ID))

	_, err := s.GetNode(ctx, leaf.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = s.DeleteNode(ctx, leaf.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
