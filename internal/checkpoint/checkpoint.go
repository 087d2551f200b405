// Package checkpoint persists the resumption cursor of full sweeps.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

// Store keeps one SyncCursor per entity prefix.
// A present cursor means a full sweep is incomplete.
type Store struct {
	kv     storage.KVStorage
	logger *slog.Logger
}

// NewStore creates a checkpoint store on top of a key-value storage
func NewStore(kv storage.KVStorage, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
	}
}

// Load returns the saved offset for prefix and whether a sweep is pending.
// Without a usable cursor it returns 0, false; a corrupt cursor is discarded.
func (s *Store) Load(ctx context.Context, prefix string) (offset int, pending bool) {
	cursor, err := s.Get(ctx, prefix)
	switch {
	case err == nil:
		s.logger.Info("Resuming full sweep from checkpoint",
			"prefix", prefix,
			"offset", cursor.NextOffset)
		return cursor.NextOffset, true
	case errors.Is(err, storage.ErrKeyNotFound):
		return 0, false
	case errors.Is(err, storage.ErrCorruptCheckpoint):
		s.logger.Warn("Discarding corrupt checkpoint, restarting sweep from offset 0",
			"prefix", prefix,
			"error", err)
		if derr := s.kv.Delete(ctx, prefix); derr != nil {
			s.logger.Warn("Failed to delete corrupt checkpoint", "prefix", prefix, "error", derr)
		}
		return 0, false
	default:
		// Не прерываем синхронизацию: полный проход с 0 - надмножество
		s.logger.Warn("Failed to read checkpoint, starting from offset 0",
			"prefix", prefix,
			"error", err)
		return 0, false
	}
}

// Get returns the stored cursor.
// Returns storage.ErrKeyNotFound or storage.ErrCorruptCheckpoint
func (s *Store) Get(ctx context.Context, prefix string) (*models.SyncCursor, error) {
	raw, err := s.kv.Get(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return decode(prefix, raw)
}

// Save persists offset as the resumption point for prefix
func (s *Store) Save(ctx context.Context, prefix string, offset int) error {
	if offset < 0 {
		return fmt.Errorf("invalid checkpoint offset %d", offset)
	}

	data, err := json.Marshal(models.SyncCursor{EntityPrefix: prefix, NextOffset: offset})
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	if err := s.kv.Put(ctx, prefix, data); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	s.logger.Debug("Checkpoint saved", "prefix", prefix, "offset", offset)
	return nil
}

// Clear removes the cursor after a completed sweep
func (s *Store) Clear(ctx context.Context, prefix string) error {
	if err := s.kv.Delete(ctx, prefix); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	s.logger.Info("Checkpoint cleared", "prefix", prefix)
	return nil
}

func decode(prefix string, raw []byte) (*models.SyncCursor, error) {
	var cursor models.SyncCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptCheckpoint, err)
	}
	if cursor.EntityPrefix != prefix {
		return nil, fmt.Errorf("%w: prefix %q stored under %q", storage.ErrCorruptCheckpoint, cursor.EntityPrefix, prefix)
	}
	if cursor.NextOffset < 0 {
		return nil, fmt.Errorf("%w: negative offset %d", storage.ErrCorruptCheckpoint, cursor.NextOffset)
	}
	return &cursor, nil
}
