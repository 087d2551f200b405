package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/nvdmirror/internal/storage"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "kv_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestKV_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально ключа нет
	_, err := store.Get(ctx, "cpe_data")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.Put(ctx, "cpe_data", []byte("first")))
	require.NoError(t, store.Put(ctx, "cpe_data", []byte("second")))

	value, err := store.Get(ctx, "cpe_data")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)

	require.NoError(t, store.Delete(ctx, "cpe_data"))
	_, err = store.Get(ctx, "cpe_data")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Удаление отсутствующего ключа - не ошибка
	assert.NoError(t, store.Delete(ctx, "cpe_data"))
}

func TestKV_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketCheckpoints)
	})
	require.NoError(t, err)

	_, err = store.Get(ctx, "cve_data")
	assert.ErrorContains(t, err, "checkpoints bucket not found")

	err = store.Put(ctx, "cve_data", []byte("x"))
	assert.ErrorContains(t, err, "checkpoints bucket not found")

	err = store.Delete(ctx, "cve_data")
	assert.ErrorContains(t, err, "checkpoints bucket not found")
}

func TestKV_Closed(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Put(ctx, "k", nil), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Delete(ctx, "k"), storage.ErrStorageClosed)
}
