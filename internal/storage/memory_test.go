package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	info, err := store.Put(ctx, "task-1/report.pdf", []byte("pdf bytes"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)

	data, got, err := store.Get(ctx, "task-1/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
	assert.Equal(t, "task-1/report.pdf", got.Key)

	require.NoError(t, store.Delete(ctx, "task-1/report.pdf"))
	_, _, err = store.Get(ctx, "task-1/report.pdf")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "task-1/report.pdf"))
}

func TestMemoryStorePutCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	buf := []byte("original")
	_, err := store.Put(ctx, "k", buf, "text/plain")
	require.NoError(t, err)
	buf[0] = 'X'

	data, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}
