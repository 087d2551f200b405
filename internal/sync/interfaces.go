package sync

import (
	"context"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/pkg/api"
)

//go:generate moq -out interfaces_mock.go . Fetcher Checkpoints Watermarks Sink

// Fetcher получает одну страницу API (с учетом пауз и повторов)
type Fetcher interface {
	Fetch(ctx context.Context, entity models.Entity, req api.PageRequest) (*models.Page, error)
}

// Checkpoints хранит точку возобновления полной синхронизации
type Checkpoints interface {
	// Load returns the resume offset; pending is true while a full sweep is unfinished
	Load(ctx context.Context, prefix string) (offset int, pending bool)
	Save(ctx context.Context, prefix string, offset int) error
	Clear(ctx context.Context, prefix string) error
}

// Watermarks определяет начало окна инкрементальной синхронизации
type Watermarks interface {
	// Resolve returns nil when a full sweep is required
	Resolve(ctx context.Context, entity models.Entity, forceFull bool) *time.Time
}

// Sink записывает пакет записей в целевое хранилище
type Sink interface {
	Upsert(ctx context.Context, entity models.Entity, records []models.Record) (int, error)
}
