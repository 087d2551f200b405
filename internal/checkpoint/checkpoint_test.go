package checkpoint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nvdmirror/internal/storage"
	"github.com/iudanet/nvdmirror/internal/storage/boltdb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryKV возвращает мок KVStorage поверх map
func memoryKV() (*storage.KVStorageMock, map[string][]byte) {
	data := make(map[string][]byte)
	return &storage.KVStorageMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			v, ok := data[key]
			if !ok {
				return nil, storage.ErrKeyNotFound
			}
			return v, nil
		},
		PutFunc: func(ctx context.Context, key string, value []byte) error {
			data[key] = value
			return nil
		},
		DeleteFunc: func(ctx context.Context, key string) error {
			delete(data, key)
			return nil
		},
	}, data
}

func assertLoad(t *testing.T, s *Store, prefix string, wantOffset int, wantPending bool) {
	t.Helper()
	offset, pending := s.Load(context.Background(), prefix)
	assert.Equal(t, wantOffset, offset)
	assert.Equal(t, wantPending, pending)
}

func TestStore_LoadDefault(t *testing.T) {
	kv, _ := memoryKV()
	s := NewStore(kv, testLogger())

	assertLoad(t, s, "cve_data", 0, false)
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	kv, data := memoryKV()
	s := NewStore(kv, testLogger())

	require.NoError(t, s.Save(ctx, "cve_data", 4000))
	assert.JSONEq(t, `{"entity_prefix":"cve_data","next_offset":4000}`, string(data["cve_data"]))
	assertLoad(t, s, "cve_data", 4000, true)

	// Префиксы независимы
	assertLoad(t, s, "cpe_data", 0, false)

	require.NoError(t, s.Clear(ctx, "cve_data"))
	assertLoad(t, s, "cve_data", 0, false)
	assert.NotContains(t, data, "cve_data")
}

func TestStore_ZeroOffsetIsPending(t *testing.T) {
	kv, _ := memoryKV()
	s := NewStore(kv, testLogger())

	// чекпоинт сохраняется до первой страницы, поэтому offset 0 тоже означает незавершенный проход
	require.NoError(t, s.Save(context.Background(), "cve_data", 0))
	assertLoad(t, s, "cve_data", 0, true)
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not json", value: "40garbage"},
		{name: "truncated", value: `{"entity_prefix":"cve_data","next_off`},
		{name: "wrong prefix", value: `{"entity_prefix":"cpe_data","next_offset":2000}`},
		{name: "negative offset", value: `{"entity_prefix":"cve_data","next_offset":-2000}`},
		{name: "wrong type", value: `{"entity_prefix":"cve_data","next_offset":"2000"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv, data := memoryKV()
			data["cve_data"] = []byte(tt.value)
			s := NewStore(kv, testLogger())

			assertLoad(t, s, "cve_data", 0, false)
			// Поврежденное значение удалено
			assert.NotContains(t, data, "cve_data")
			assert.Len(t, kv.DeleteCalls(), 1)

			_, err := s.Get(ctx, "cve_data")
			assert.ErrorIs(t, err, storage.ErrKeyNotFound)
		})
	}
}

func TestStore_LoadBackendError(t *testing.T) {
	kv := &storage.KVStorageMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("disk on fire")
		},
	}
	s := NewStore(kv, testLogger())

	assertLoad(t, s, "cve_data", 0, false)
	assert.Empty(t, kv.DeleteCalls())
}

func TestStore_SaveErrors(t *testing.T) {
	ctx := context.Background()
	kv := &storage.KVStorageMock{
		PutFunc: func(ctx context.Context, key string, value []byte) error {
			return errors.New("read-only")
		},
	}
	s := NewStore(kv, testLogger())

	err := s.Save(ctx, "cve_data", 2000)
	assert.ErrorContains(t, err, "failed to save checkpoint")

	err = s.Save(ctx, "cve_data", -1)
	assert.ErrorContains(t, err, "invalid checkpoint offset")
	assert.Len(t, kv.PutCalls(), 1)
}

func TestStore_BoltDB(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkpoints.db")

	kv, err := boltdb.New(ctx, path)
	require.NoError(t, err)
	s := NewStore(kv, testLogger())
	require.NoError(t, s.Save(ctx, "cpe_data", 6000))
	require.NoError(t, kv.Close())

	// Checkpoint переживает перезапуск процесса
	kv, err = boltdb.New(ctx, path)
	require.NoError(t, err)
	defer kv.Close()

	s = NewStore(kv, testLogger())
	assertLoad(t, s, "cpe_data", 6000, true)
}
