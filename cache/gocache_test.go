package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoCache_ReadWrite(t *testing.T) {
	ctx := context.Background()
	gc := NewGoCache()

	_, found, err := gc.Read(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, gc.Write(ctx, "key", []byte("value")))
	value, found, err := gc.Read(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), value)

	count, _ := gc.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestGoCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	gc := NewGoCache()

	for _, key := range []string{"p_1", "p_2", "q_1"} {
		require.NoError(t, gc.Write(ctx, key, []byte(key)))
	}

	n, err := gc.DeletePrefix(ctx, "p_")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, _ := gc.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestGoCache_Close(t *testing.T) {
	ctx := context.Background()
	gc := NewGoCache()
	require.NoError(t, gc.Write(ctx, "key", []byte("value")))
	require.NoError(t, gc.Delete(ctx, "missing"))

	require.NoError(t, gc.Close())
	count, _ := gc.Count(ctx)
	assert.Equal(t, 0, count)
}
