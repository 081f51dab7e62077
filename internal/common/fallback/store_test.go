package fallback

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))

	val, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), val)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":2}`)))
	val, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":2}`), val)
}

func TestMemoryStoreAppendBoundedDropsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 150; i++ {
		err := store.AppendBounded(ctx, "ring", []byte(fmt.Sprintf("event-%d", i)), 100)
		require.NoError(t, err)
	}

	list, err := store.List(ctx, "ring", 0)
	require.NoError(t, err)
	require.Len(t, list, 100)

	// Newest first: event-149 at the head, event-50 at the tail. Events 0-49
	// were dropped.
	assert.Equal(t, "event-149", string(list[0]))
	assert.Equal(t, "event-50", string(list[99]))
}

func TestMemoryStoreListLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 10; i++ {
		require.NoError(t, store.AppendBounded(ctx, "ring", []byte(fmt.Sprintf("e%d", i)), 100))
	}

	list, err := store.List(ctx, "ring", 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "e9", string(list[0]))
	assert.Equal(t, "e7", string(list[2]))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "profile:ABC", ProfileKey("ABC"))
	assert.Equal(t, "activity:ABC", ActivityKey("ABC"))
}
