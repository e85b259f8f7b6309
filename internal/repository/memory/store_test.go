package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Set(ctx, "reports/2025_03", []byte(`{"year":2025,"month":3}`)))

	raw, found, err := s.Get(ctx, "reports/2025_03")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"year":2025,"month":3}`, string(raw))
}

func TestStore_GetMissing(t *testing.T) {
	_, found, err := NewStore().Get(context.Background(), "accounts")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_AppendAndCollectionGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id1, err := s.Append(ctx, "accounts", []byte(`{"name":"Bank"}`))
	require.NoError(t, err)
	id2, err := s.Append(ctx, "accounts", []byte(`{"name":"Cash"}`))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	raw, found, err := s.Get(ctx, "accounts")
	require.NoError(t, err)
	require.True(t, found)

	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Bank", got[id1]["name"])
	assert.Equal(t, "Cash", got[id2]["name"])
}

func TestStore_SetReplacesChildren(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.Append(ctx, "accounts", []byte(`{"name":"Bank"}`))

	require.NoError(t, s.Set(ctx, "accounts", []byte(`{}`)))

	raw, found, err := s.Get(ctx, "accounts")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestStore_DeleteRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id, _ := s.Append(ctx, "accounts", []byte(`{"name":"Bank"}`))
	_ = s.Set(ctx, "accountsx/keep", []byte(`1`))

	require.NoError(t, s.Delete(ctx, "accounts/"+id))
	require.NoError(t, s.Delete(ctx, "accounts/missing"))

	_, found, _ := s.Get(ctx, "accounts")
	assert.False(t, found)
	_, found, _ = s.Get(ctx, "accountsx")
	assert.True(t, found)
}

func TestStore_InvalidPath(t *testing.T) {
	err := NewStore().Set(context.Background(), "a/../b", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidLedgerPath)
}
