package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLoadMissingUserGivesEmptyCart(t *testing.T) {
	store := NewMemoryStore()

	agg, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, agg.Empty())
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	agg := New()
	tomato := newProduct("Tomato", 50)
	rice := newProduct("Rice", 80)
	agg.Add(tomato, 2, AddOptions{DeliveryDay: "Friday"})
	agg.Add(rice, 1, AddOptions{})

	require.NoError(t, store.Save(ctx, "user-1", agg))

	// Rehydrating yields identical lines, quantities and derived values.
	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, agg.Lines, loaded.Lines)
	assert.Equal(t, agg.ItemCount(), loaded.ItemCount())
	assert.InDelta(t, agg.Total(), loaded.Total(), 1e-9)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	agg := New()
	agg.Add(newProduct("Tomato", 50), 1, AddOptions{})
	require.NoError(t, store.Save(ctx, "user-1", agg))

	require.NoError(t, store.Delete(ctx, "user-1"))

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, loaded.Empty())
}

func TestStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := New()
	a.Add(newProduct("Tomato", 50), 2, AddOptions{})
	require.NoError(t, store.Save(ctx, "a", a))

	b, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.Empty())
}
