package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-authclient/store"
)

func setupBunStore(t *testing.T) *store.Bun {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	bunDB := bun.NewDB(db, sqlitedialect.New())

	kv := store.NewBun(bunDB)
	require.NoError(t, kv.Init(context.Background()))

	return kv
}

func TestBunReadMissingKey(t *testing.T) {
	kv := setupBunStore(t)

	value, err := kv.Read(context.Background(), "auth.access_token")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestBunWriteThenRead(t *testing.T) {
	ctx := context.Background()
	kv := setupBunStore(t)

	require.NoError(t, kv.Write(ctx, "auth.access_token", "access-1"))

	value, err := kv.Read(ctx, "auth.access_token")
	require.NoError(t, err)
	assert.Equal(t, "access-1", value)
}

func TestBunWriteUpsertsExistingKey(t *testing.T) {
	ctx := context.Background()
	kv := setupBunStore(t)

	require.NoError(t, kv.Write(ctx, "auth.refresh_token", "refresh-1"))
	require.NoError(t, kv.Write(ctx, "auth.refresh_token", "refresh-2"))

	value, err := kv.Read(ctx, "auth.refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", value)
}

func TestBunEmptyValueRemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := setupBunStore(t)

	require.NoError(t, kv.Write(ctx, "auth.user", `{"id":"u-1"}`))
	require.NoError(t, kv.Write(ctx, "auth.user", ""))

	value, err := kv.Read(ctx, "auth.user")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestBunDeleteMissingKeyIsIdempotent(t *testing.T) {
	kv := setupBunStore(t)

	assert.NoError(t, kv.Write(context.Background(), "auth.user", ""))
}
