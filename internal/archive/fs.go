package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
)

// FS archives into a local directory:
//
//	{dir}/raw_api_responses/{prefix}_page_{offset}_{ts}.json
//	{dir}/{prefix}_FULL_{ts}.json
type FS struct {
	logger *slog.Logger
	now    func() time.Time
	dir    string
}

// NewFS creates the archive directories if needed
func NewFS(dir string, logger *slog.Logger) (*FS, error) {
	if err := os.MkdirAll(filepath.Join(dir, PagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FS{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}, nil
}

// SavePage writes the indented page through a temp file and renames it into place
func (a *FS) SavePage(ctx context.Context, prefix string, offset int, raw []byte) error {
	path := filepath.Join(a.dir, PagesDir, pageName(prefix, offset, a.now()))
	if err := writeFileAtomic(path, indentPage(raw)); err != nil {
		return fmt.Errorf("failed to archive page %d: %w", offset, err)
	}
	a.logger.Debug("Archived raw response", "prefix", prefix, "offset", offset, "path", path)
	return nil
}

// BeginSnapshot stages the snapshot in a hidden temp file next to its final path
func (a *FS) BeginSnapshot(ctx context.Context, prefix string) (SnapshotWriter, error) {
	f, err := os.CreateTemp(a.dir, "."+prefix+"_FULL_*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	return &fsSnapshot{
		file:   f,
		out:    newArrayWriter(f),
		prefix: prefix,
		fs:     a,
	}, nil
}

// Cleanup removes page archives whose modification time is older than retention
func (a *FS) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	dir := filepath.Join(a.dir, PagesDir)
	cutoff := a.now().Add(-retention)
	a.logger.Info("Starting archive cleanup", "dir", dir, "cutoff", cutoff)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.logger.Info("Archive directory does not exist, skipping cleanup", "dir", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list archive directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			a.logger.Error("Failed to stat archive file", "file", entry.Name(), "error", err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			a.logger.Error("Failed to delete archive file", "file", entry.Name(), "error", err)
			continue
		}
		deleted++
		a.logger.Debug("Deleted old archive file", "file", entry.Name())
	}

	a.logger.Info("Finished archive cleanup", "deleted", deleted)
	return deleted, nil
}

type fsSnapshot struct {
	file   *os.File
	out    *arrayWriter
	fs     *FS
	prefix string
	closed bool
}

func (s *fsSnapshot) Append(items []models.Document) error {
	if s.closed {
		return os.ErrClosed
	}
	return s.out.append(items)
}

func (s *fsSnapshot) Commit(ctx context.Context) (string, error) {
	if s.closed {
		return "", os.ErrClosed
	}
	s.closed = true

	tmp := s.file.Name()
	if err := s.out.close(); err != nil {
		_ = s.file.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := s.file.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to close snapshot: %w", err)
	}

	path := filepath.Join(s.fs.dir, snapshotName(s.prefix, s.fs.now()))
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to publish snapshot: %w", err)
	}

	s.fs.logger.Info("Saved snapshot", "path", path, "items", s.out.count)
	return path, nil
}

func (s *fsSnapshot) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.file.Close()
	return os.Remove(s.file.Name())
}

func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
