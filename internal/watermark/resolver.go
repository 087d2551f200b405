// Package watermark derives the start of an incremental sync window.
package watermark

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/pkg/api"
)

// DefaultMargin is subtracted from the stored watermark so that records
// written in the same second as the previous run's last write are pulled again.
const DefaultMargin = time.Second

// MaxLastModifiedReader is the part of the target store the resolver needs
type MaxLastModifiedReader interface {
	MaxLastModified(ctx context.Context, table string) (time.Time, bool, error)
}

// Resolver computes incremental start times
type Resolver struct {
	store  MaxLastModifiedReader
	logger *slog.Logger
	margin time.Duration
}

// NewResolver creates a resolver; margin <= 0 selects DefaultMargin
func NewResolver(store MaxLastModifiedReader, margin time.Duration, logger *slog.Logger) *Resolver {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Resolver{
		store:  store,
		margin: margin,
		logger: logger,
	}
}

// Resolve returns the start of the incremental window, or nil for a full sync.
// A failing store query degrades to a full sync rather than failing the run.
func (r *Resolver) Resolve(ctx context.Context, entity models.Entity, forceFull bool) *time.Time {
	if forceFull {
		r.logger.Warn("Force full sync is set, bypassing watermark", "table", entity.Table)
		return nil
	}

	r.logger.Info("Querying max last_modified", "table", entity.Table)
	last, ok, err := r.store.MaxLastModified(ctx, entity.Table)
	if err != nil {
		r.logger.Error("Could not retrieve last modified time, falling back to full sync",
			"table", entity.Table,
			"error", err)
		return nil
	}
	if !ok {
		r.logger.Info("No records found, performing a full sync", "table", entity.Table)
		return nil
	}

	start := last.Add(-r.margin)
	r.logger.Info("Starting incremental sync",
		"table", entity.Table,
		"watermark", last,
		"start", api.FormatTime(start))
	return &start
}
