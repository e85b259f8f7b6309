package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectClient keeps objects in memory
type fakeObjectClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	failAll bool
}

func newFakeObjectClient() *fakeObjectClient {
	return &fakeObjectClient{objects: make(map[string][]byte)}
}

var errS3Down = errors.New("connection refused")

func (f *fakeObjectClient) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errS3Down
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjectClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errS3Down
	}
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errS3Down
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjectClient) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errS3Down
	}
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3LedgerStore_SetWritesObjectPerPath(t *testing.T) {
	client := newFakeObjectClient()
	store := NewS3LedgerStore(client, "ledger", "prod/")

	err := store.Set(context.Background(), "finance/reports/2025_03", []byte(`{"year":2025}`))

	require.NoError(t, err)
	assert.Contains(t, client.objects, "prod/finance/reports/2025_03.json")
}

func TestS3LedgerStore_GetAssemblesCollection(t *testing.T) {
	ctx := context.Background()
	store := NewS3LedgerStore(newFakeObjectClient(), "ledger", "")

	id, err := store.Append(ctx, "finance/accounts", []byte(`{"name":"Bank"}`))
	require.NoError(t, err)

	raw, found, err := store.Get(ctx, "finance/accounts")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"`+id+`":{"name":"Bank"}}`, string(raw))
}

func TestS3LedgerStore_GetMissing(t *testing.T) {
	_, found, err := NewS3LedgerStore(newFakeObjectClient(), "ledger", "").Get(context.Background(), "finance/goals")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestS3LedgerStore_DeleteRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	client := newFakeObjectClient()
	store := NewS3LedgerStore(client, "ledger", "")

	_, _ = store.Append(ctx, "finance/accounts", []byte(`{}`))
	_, _ = store.Append(ctx, "finance/accounts", []byte(`{}`))
	require.NoError(t, store.Set(ctx, "finance/goals", []byte(`{}`)))

	require.NoError(t, store.Delete(ctx, "finance/accounts"))

	assert.Len(t, client.objects, 1)
	assert.Contains(t, client.objects, "finance/goals.json")
}

func TestS3LedgerStore_FailuresAreUnavailable(t *testing.T) {
	client := newFakeObjectClient()
	client.failAll = true
	store := NewS3LedgerStore(client, "ledger", "")

	_, _, err := store.Get(context.Background(), "finance/accounts")
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)

	_, err = store.Append(context.Background(), "finance/accounts", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
}
