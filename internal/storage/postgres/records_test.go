package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

// setupTestStorage подключается к PostgreSQL из NVDMIRROR_TEST_POSTGRES_DSN.
// Без переменной тесты пропускаются.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := os.Getenv("NVDMIRROR_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NVDMIRROR_TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	s, err := New(ctx, dsn, 2)
	require.NoError(t, err)

	_, err = s.Pool().Exec(ctx, `TRUNCATE cve_records, cpe_records`)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := New(context.Background(), "postgres://%zz", 1)
	assert.ErrorContains(t, err, "failed to parse postgres dsn")
}

func TestUpsertRows_IdempotentAndLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	t1 := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)
	rows := []storage.Row{
		{ID: "CVE-2024-0001", Payload: []byte(`{"id":"CVE-2024-0001"}`), LastModified: t1},
		{ID: "CVE-2024-0002", Payload: []byte(`{"id":"CVE-2024-0002"}`), LastModified: t1},
	}

	for i := 0; i < 2; i++ {
		n, err := s.UpsertRows(ctx, models.EntityCVE.Table, rows)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}

	stats, err := s.Stats(ctx, models.EntityCVE.Table)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)

	t2 := t1.Add(time.Minute)
	_, err = s.UpsertRows(ctx, models.EntityCVE.Table, []storage.Row{
		{ID: "CVE-2024-0001", Payload: []byte(`{"id":"CVE-2024-0001","v":2}`), LastModified: t2},
	})
	require.NoError(t, err)

	var payload string
	err = s.Pool().QueryRow(ctx, `SELECT json_data::text FROM cve_records WHERE cve_id = $1`, "CVE-2024-0001").Scan(&payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"CVE-2024-0001","v":2}`, payload)

	ts, ok, err := s.MaxLastModified(ctx, models.EntityCVE.Table)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, t2.Equal(ts))
}

func TestMaxLastModified_Empty(t *testing.T) {
	s := setupTestStorage(t)

	_, ok, err := s.MaxLastModified(context.Background(), models.EntityCPE.Table)
	require.NoError(t, err)
	assert.False(t, ok)
}
