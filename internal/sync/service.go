// Package sync drives paginated synchronization of NVD entities into the
// local mirror: one sweep per entity, full or incremental.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/nvdmirror/internal/archive"
	"github.com/iudanet/nvdmirror/internal/extract"
	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/nvd"
	"github.com/iudanet/nvdmirror/pkg/api"
)

// DefaultEndDelay keeps the incremental window clear of records that NVD is
// still publishing
const DefaultEndDelay = 15 * time.Minute

// Mode is the kind of sweep
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// State is the orchestrator state at the end of a sweep
type State string

const (
	StateInit             State = "init"
	StateFullSweep        State = "full_sweep"
	StateIncrementalSweep State = "incremental_sweep"
	StatePaging           State = "paging"
	StateDone             State = "done"
	StateAborted          State = "aborted"
)

// Options configures sweeps
type Options struct {
	// EndDelay is subtracted from now to get the end of the incremental window
	EndDelay  time.Duration
	ForceFull bool
}

// SweepResult contains sweep results
type SweepResult struct {
	StartedAt   time.Time
	RunID       string
	Entity      string
	Mode        Mode
	State       State
	Duration    time.Duration
	Pages       int // количество полученных страниц
	Fetched     int // количество полученных элементов
	Written     int // количество записанных строк
	Skipped     int // количество элементов без идентификатора
	StartOffset int
	EndOffset   int
}

// Service runs sweeps
type Service struct {
	fetcher     Fetcher
	checkpoints Checkpoints
	watermarks  Watermarks
	sink        Sink
	archiver    archive.Archiver
	logger      *slog.Logger
	now         func() time.Time
	newRunID    func() string
	opts        Options
}

// NewService creates a sync service. A nil archiver disables archival.
func NewService(
	fetcher Fetcher,
	checkpoints Checkpoints,
	watermarks Watermarks,
	sink Sink,
	archiver archive.Archiver,
	opts Options,
	logger *slog.Logger,
) *Service {
	if archiver == nil {
		archiver = archive.Nop{}
	}
	if opts.EndDelay < 0 {
		opts.EndDelay = 0
	}
	return &Service{
		fetcher:     fetcher,
		checkpoints: checkpoints,
		watermarks:  watermarks,
		sink:        sink,
		archiver:    archiver,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
		newRunID:    uuid.NewString,
	}
}

// Run executes one sweep per entity, in order. A failed sweep does not prevent
// the next one, except on authentication failure or cancellation, which stop
// the run. All sweep errors are joined into the returned error.
func (s *Service) Run(ctx context.Context, entities []models.Entity) ([]*SweepResult, error) {
	results := make([]*SweepResult, 0, len(entities))
	var errs []error

	for _, entity := range entities {
		result, err := s.Sweep(ctx, entity)
		results = append(results, result)
		if err == nil {
			continue
		}

		errs = append(errs, fmt.Errorf("%s sync: %w", entity.Name, err))
		if errors.Is(err, nvd.ErrAuthFailure) {
			s.logger.Error("Authentication failed, stopping run", "entity", entity.Name, "error", err)
			break
		}
		if ctx.Err() != nil {
			s.logger.Warn("Run canceled", "entity", entity.Name)
			break
		}
		s.logger.Error("Sweep failed, continuing with next entity", "entity", entity.Name, "error", err)
	}

	return results, errors.Join(errs...)
}

// Sweep synchronizes a single entity. The returned result is never nil and
// reflects progress made before any failure.
func (s *Service) Sweep(ctx context.Context, entity models.Entity) (result *SweepResult, err error) {
	result = &SweepResult{
		RunID:     s.newRunID(),
		Entity:    entity.Name,
		State:     StateInit,
		StartedAt: s.now(),
	}
	logger := s.logger.With("run_id", result.RunID, "entity", entity.Name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Sweep panicked", "panic", r)
			result.State = StateAborted
			err = fmt.Errorf("%w: %v", ErrSweepPanic, r)
		}
		result.Duration = s.now().Sub(result.StartedAt)
	}()

	err = s.sweep(ctx, entity, result, logger)
	return result, err
}

func (s *Service) sweep(ctx context.Context, entity models.Entity, result *SweepResult, logger *slog.Logger) error {
	extractor, err := extract.ForEntity(entity)
	if err != nil {
		result.State = StateAborted
		return err
	}
	if entity.PageSize <= 0 {
		result.State = StateAborted
		return fmt.Errorf("invalid page size %d for %s", entity.PageSize, entity.Name)
	}

	req := api.PageRequest{ResultsPerPage: entity.PageSize}
	full := false

	// Незавершенный полный проход продолжается независимо от watermark:
	// строки прерванного прохода уже есть в таблице
	offset, pending := s.checkpoints.Load(ctx, entity.Prefix)

	var since *time.Time
	if !pending {
		since = s.watermarks.Resolve(ctx, entity, s.opts.ForceFull)
	}

	if since == nil {
		full = true
		result.Mode = ModeFull
		result.State = StateFullSweep
		req.StartIndex = offset
		logger.Info("Performing a full synchronization", "offset", req.StartIndex, "resumed", pending)
	} else {
		end := s.now().Add(-s.opts.EndDelay)
		req.LastModStart = since
		req.LastModEnd = &end
		result.Mode = ModeIncremental
		result.State = StateIncrementalSweep
		logger.Info("Performing an incremental synchronization",
			"start", api.FormatTime(*since),
			"end", api.FormatTime(end))

		// Окно пусто, пока последние записи моложе EndDelay
		if !end.After(*since) {
			result.State = StateDone
			logger.Info("Incremental window is empty, nothing to fetch")
			return nil
		}
	}
	result.StartOffset = req.StartIndex
	result.EndOffset = req.StartIndex

	// Снимок собирается только при полной синхронизации и только из страниц этого запуска
	var (
		snapshot      archive.SnapshotWriter
		snapshotItems int
	)
	if full {
		snapshot, err = s.archiver.BeginSnapshot(ctx, entity.Prefix)
		if err != nil {
			logger.Warn("Failed to start snapshot, continuing without it", "error", err)
			snapshot = nil
		}
	}
	abortSnapshot := func() {
		if snapshot == nil {
			return
		}
		if err := snapshot.Abort(); err != nil {
			logger.Warn("Failed to discard snapshot", "error", err)
		}
		snapshot = nil
	}

	result.State = StatePaging
	for {
		if full {
			if err := s.checkpoints.Save(ctx, entity.Prefix, req.StartIndex); err != nil {
				logger.Warn("Failed to save checkpoint", "offset", req.StartIndex, "error", err)
			}
		}

		page, err := s.fetcher.Fetch(ctx, entity, req)
		if err != nil {
			result.State = StateAborted
			abortSnapshot()
			logger.Error("API fetch failed, aborting sync", "offset", req.StartIndex, "error", err)
			return fmt.Errorf("fetch page at offset %d: %w", req.StartIndex, err)
		}
		result.Pages++
		result.Fetched += len(page.Items)

		if err := s.archiver.SavePage(ctx, entity.Prefix, req.StartIndex, page.Raw); err != nil {
			logger.Warn("Failed to archive page", "offset", req.StartIndex, "error", err)
		}
		if snapshot != nil {
			if err := snapshot.Append(page.Items); err != nil {
				logger.Warn("Failed to append to snapshot, dropping it", "error", err)
				abortSnapshot()
			} else {
				snapshotItems += len(page.Items)
			}
		}

		records := make([]models.Record, 0, len(page.Items))
		for i, item := range page.Items {
			id, payload, err := extractor.Extract(item)
			if err != nil {
				result.Skipped++
				logger.Warn("Failed to find identifier in record, skipping",
					"offset", req.StartIndex,
					"index", i,
					"error", err)
				continue
			}
			records = append(records, models.Record{ID: id, Payload: payload})
		}

		written, err := s.sink.Upsert(ctx, entity, records)
		if err != nil {
			result.State = StateAborted
			abortSnapshot()
			logger.Error("Failed to persist page, aborting sync", "offset", req.StartIndex, "error", err)
			return fmt.Errorf("%w at offset %d: %w", ErrPersistence, req.StartIndex, err)
		}
		result.Written += written

		req.StartIndex += entity.PageSize
		result.EndOffset = req.StartIndex
		logger.Info("Progress",
			"start_index", req.StartIndex-entity.PageSize,
			"total_results", page.TotalCount,
			"items", len(page.Items),
			"written", written)

		if req.StartIndex >= page.TotalCount {
			logger.Info("Completed fetching all records", "total_results", page.TotalCount)
			break
		}
	}

	if full {
		if err := s.checkpoints.Clear(ctx, entity.Prefix); err != nil {
			logger.Warn("Failed to clear checkpoint", "error", err)
		}
		if snapshot != nil {
			if snapshotItems == 0 {
				abortSnapshot()
			} else if location, err := snapshot.Commit(ctx); err != nil {
				logger.Warn("Failed to save snapshot", "error", err)
			} else if location != "" {
				logger.Info("Saved full snapshot", "location", location, "items", snapshotItems)
			}
		}
	}

	result.State = StateDone
	logger.Info("Synchronization completed",
		"mode", result.Mode,
		"pages", result.Pages,
		"fetched", result.Fetched,
		"written", result.Written,
		"skipped", result.Skipped)
	return nil
}
