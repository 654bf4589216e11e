package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_Contract(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)

	in := []byte("v1")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'X' // caller mutation must not leak into the store

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)
}
