package watermark

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve(t *testing.T) {
	watermark := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		maxErr    error
		name      string
		margin    time.Duration
		maxTS     time.Time
		want      *time.Time
		hasRows   bool
		forceFull bool
		wantQuery bool
	}{
		{
			name:      "force full bypasses store",
			maxTS:     watermark,
			hasRows:   true,
			forceFull: true,
			want:      nil,
		},
		{
			name:      "empty store means full sync",
			hasRows:   false,
			want:      nil,
			wantQuery: true,
		},
		{
			name:      "query failure falls back to full sync",
			maxErr:    errors.New("connection refused"),
			want:      nil,
			wantQuery: true,
		},
		{
			name:      "watermark minus default margin",
			maxTS:     watermark,
			hasRows:   true,
			want:      ptr(watermark.Add(-time.Second)),
			wantQuery: true,
		},
		{
			name:      "watermark minus custom margin",
			margin:    30 * time.Second,
			maxTS:     watermark,
			hasRows:   true,
			want:      ptr(watermark.Add(-30 * time.Second)),
			wantQuery: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &storage.RecordStorageMock{
				MaxLastModifiedFunc: func(ctx context.Context, table string) (time.Time, bool, error) {
					assert.Equal(t, models.EntityCVE.Table, table)
					return tt.maxTS, tt.hasRows, tt.maxErr
				},
			}

			r := NewResolver(store, tt.margin, testLogger())
			got := r.Resolve(context.Background(), models.EntityCVE, tt.forceFull)

			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
				assert.True(t, got.Before(tt.maxTS))
			}

			if tt.wantQuery {
				assert.Len(t, store.MaxLastModifiedCalls(), 1)
			} else {
				assert.Empty(t, store.MaxLastModifiedCalls())
			}
		})
	}
}

func TestNewResolver_DefaultMargin(t *testing.T) {
	r := NewResolver(&storage.RecordStorageMock{}, 0, testLogger())
	assert.Equal(t, DefaultMargin, r.margin)
}

func ptr(t time.Time) *time.Time {
	return &t
}
