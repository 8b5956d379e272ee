package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catshop/storefront/internal/catalog"
	"github.com/catshop/storefront/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]domain.Product{
		{ID: 1, Name: "Cat Mug", Price: 500},
		{ID: 2, Name: "Cat Hat", Price: 1200},
	})
	require.NoError(t, err)
	return cat
}

func TestAdd_NewEntryStartsAtOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 1))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1}, entries)
}

func TestAdd_Increments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 2))
	require.NoError(t, store.Add(ctx, "s1", 2))
	require.NoError(t, store.Add(ctx, "s1", 2))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{2: 3}, entries)
}

func TestAddThenRemove_IsIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 1))
	before, err := store.Entries(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, "s1", 2))
	require.NoError(t, store.Remove(ctx, "s1", 2))

	after, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemove_LastUnitDeletesKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 1))
	require.NoError(t, store.Remove(ctx, "s1", 1))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, entries, int64(1), "quantity zero must delete the key, never store it")
	assert.Empty(t, entries)
}

func TestRemove_AbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 1))
	require.NoError(t, store.Remove(ctx, "s1", 42))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1}, entries)
}

func TestQuantities_NeverBelowOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ops := []struct {
		add bool
		id  int64
	}{
		{true, 1}, {false, 1}, {false, 1}, {true, 2}, {true, 2},
		{false, 2}, {false, 2}, {false, 2}, {true, 3}, {false, 9},
	}
	for _, op := range ops {
		if op.add {
			require.NoError(t, store.Add(ctx, "s1", op.id))
		} else {
			require.NoError(t, store.Remove(ctx, "s1", op.id))
		}
		entries, err := store.Entries(ctx, "s1")
		require.NoError(t, err)
		for id, qty := range entries {
			assert.Greaterf(t, qty, int64(0), "entry %d has non-positive quantity", id)
		}
	}
}

func TestEntries_IsolatedPerSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 1))
	require.NoError(t, store.Add(ctx, "s2", 2))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1}, entries)
}

func TestClear_EmptiesCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, "s1", 1))
	require.NoError(t, store.Clear(ctx, "s1"))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestItems_CatalogOrderWinsOverInsertionOrder(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	store := NewMemoryStore()

	// Hat first, then mug, then hat again: display order must still be
	// catalog order.
	require.NoError(t, store.Add(ctx, "s1", 2))
	require.NoError(t, store.Add(ctx, "s1", 1))
	require.NoError(t, store.Add(ctx, "s1", 2))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)

	items := Items(cat, entries)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].Product.ID)
	assert.Equal(t, int64(1), items[0].Quantity)
	assert.Equal(t, int64(2), items[1].Product.ID)
	assert.Equal(t, int64(2), items[1].Quantity)

	assert.Equal(t, int64(500*1+1200*2), Total(items))
}

func TestItems_StaleEntryExcluded(t *testing.T) {
	cat := testCatalog(t)

	entries := map[int64]int64{1: 1, 99: 4}

	items := Items(cat, entries)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Product.ID)
	assert.Equal(t, int64(500), Total(items))
}

func TestItems_EmptyCart(t *testing.T) {
	cat := testCatalog(t)

	items := Items(cat, map[int64]int64{})
	assert.Empty(t, items)
	assert.Zero(t, Total(items))
}

func TestTotal_ExactIntegerArithmetic(t *testing.T) {
	// Prices that would drift under float accumulation.
	cat, err := catalog.New([]domain.Product{
		{ID: 1, Name: "A", Price: 1},
		{ID: 2, Name: "B", Price: 3},
		{ID: 3, Name: "C", Price: 1999999999},
	})
	require.NoError(t, err)

	entries := map[int64]int64{1: 7, 2: 11, 3: 3}
	items := Items(cat, entries)

	assert.Equal(t, int64(1*7+3*11+1999999999*3), Total(items))
}
