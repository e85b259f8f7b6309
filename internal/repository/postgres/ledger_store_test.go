package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database when TEST_DATABASE_URL is set
func newTestStore(t *testing.T) *LedgerStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewLedgerStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestLedgerStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := kvtree.Join("test", kvtree.NewKey())
	t.Cleanup(func() { _ = store.Delete(ctx, base) })

	require.NoError(t, store.Set(ctx, base+"/reports/2025_03", []byte(`{"year":2025,"month":3}`)))
	id, err := store.Append(ctx, base+"/accounts", []byte(`{"name":"Bank"}`))
	require.NoError(t, err)

	raw, found, err := store.Get(ctx, base+"/reports/2025_03")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"year":2025,"month":3}`, string(raw))

	raw, found, err = store.Get(ctx, base+"/accounts")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"`+id+`":{"name":"Bank"}}`, string(raw))

	require.NoError(t, store.Delete(ctx, base+"/accounts/"+id))
	_, found, err = store.Get(ctx, base+"/accounts")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLedgerStore_PrefixDoesNotMatchSiblings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := kvtree.Join("test", kvtree.NewKey())
	t.Cleanup(func() { _ = store.Delete(ctx, base) })

	require.NoError(t, store.Set(ctx, base+"/reports_old/x", []byte(`1`)))

	_, found, err := store.Get(ctx, base+"/reports")
	require.NoError(t, err)
	assert.False(t, found)
}
