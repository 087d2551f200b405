// Package sink persists extracted records into the target store.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

// ErrEncodePayload is returned when a record payload cannot be serialized
var ErrEncodePayload = errors.New("failed to encode payload")

// Sink writes batches of records into an entity table
type Sink struct {
	store  storage.RecordStorage
	logger *slog.Logger
	now    func() time.Time
}

// New creates a sink stamping rows with the wall clock
func New(store storage.RecordStorage, logger *slog.Logger) *Sink {
	return &Sink{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Upsert writes records into entity's table as one transaction and returns
// the number of rows written. Records without an id are skipped.
// last_modified is the record's ObservedAt, or the write time when it is zero.
func (s *Sink) Upsert(ctx context.Context, entity models.Entity, records []models.Record) (int, error) {
	if len(records) == 0 {
		s.logger.Debug("No records to upsert", "table", entity.Table)
		return 0, nil
	}

	// Все строки пакета получают одну метку времени записи
	stamp := s.now().UTC()

	rows := make([]storage.Row, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			s.logger.Warn("Skipping record with empty id", "table", entity.Table)
			continue
		}

		payload, err := json.Marshal(rec.Payload)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrEncodePayload, rec.ID, err)
		}

		observed := stamp
		if !rec.ObservedAt.IsZero() {
			observed = rec.ObservedAt.UTC()
		}

		rows = append(rows, storage.Row{
			ID:           rec.ID,
			Payload:      payload,
			LastModified: observed,
		})
	}

	if len(rows) == 0 {
		return 0, nil
	}

	written, err := s.store.UpsertRows(ctx, entity.Table, rows)
	if err != nil {
		return 0, fmt.Errorf("upsert into %s: %w", entity.Table, err)
	}

	s.logger.Info("Upserted records", "table", entity.Table, "count", written)
	return written, nil
}
