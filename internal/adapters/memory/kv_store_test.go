package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tasktracker/internal/ports/secondary"
)

func TestKeyValueStore_GetNotFound(t *testing.T) {
	store := NewKeyValueStore()

	_, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, secondary.ErrKeyNotFound)
}

func TestKeyValueStore_SetThenGet(t *testing.T) {
	store := NewKeyValueStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tasks", "[]"))
	require.NoError(t, store.Set(ctx, "tasks", `[{"id":1}]`))

	val, err := store.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, val)
}

func TestKeyValueStore_EmptyStringIsAValue(t *testing.T) {
	store := NewKeyValueStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tasks", ""))

	val, err := store.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, "", val)
	assert.NoError(t, store.Close())
}
