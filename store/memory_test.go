package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-authclient/store"
)

func TestMemoryReadMissingKey(t *testing.T) {
	kv := store.NewMemory()

	value, err := kv.Read(context.Background(), "auth.access_token")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestMemoryWriteThenRead(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	require.NoError(t, kv.Write(ctx, "auth.access_token", "access-1"))

	value, err := kv.Read(ctx, "auth.access_token")
	require.NoError(t, err)
	assert.Equal(t, "access-1", value)
}

func TestMemoryEmptyValueRemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	require.NoError(t, kv.Write(ctx, "auth.refresh_token", "refresh-1"))
	require.NoError(t, kv.Write(ctx, "auth.refresh_token", ""))

	value, err := kv.Read(ctx, "auth.refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}
