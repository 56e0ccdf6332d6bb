package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	_, ok, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ms.Set(ctx, "k", "v1"))
	require.NoError(t, ms.Set(ctx, "k", "v2"))

	value, ok, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)

	require.NoError(t, ms.Delete(ctx, "k"))
	require.NoError(t, ms.Delete(ctx, "k"))
	_, ok, _ = ms.Get(ctx, "k")
	assert.False(t, ok)
}
