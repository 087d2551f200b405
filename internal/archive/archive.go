// Package archive stores raw API pages and full-sweep snapshots for audit
// and recovery. Archival is best-effort: callers log failures and carry on.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
)

//go:generate moq -out archive_mock.go . Archiver SnapshotWriter

// PagesDir is the directory (or key prefix) holding per-page archives
const PagesDir = "raw_api_responses"

// DefaultRetention is how long page archives are kept
const DefaultRetention = 90 * 24 * time.Hour

const timestampLayout = "20060102_150405"

// Archiver persists raw pages and snapshots
type Archiver interface {
	// SavePage stores the raw body of the page fetched at offset
	SavePage(ctx context.Context, prefix string, offset int, raw []byte) error

	// BeginSnapshot starts a snapshot of all items fetched during a full sweep
	BeginSnapshot(ctx context.Context, prefix string) (SnapshotWriter, error)

	// Cleanup removes page archives older than retention and returns how many were removed
	Cleanup(ctx context.Context, retention time.Duration) (int, error)
}

// SnapshotWriter accumulates the items of a full sweep into one JSON array.
// Nothing is visible at the final location until Commit.
type SnapshotWriter interface {
	Append(items []models.Document) error
	// Commit publishes the snapshot and returns its location
	Commit(ctx context.Context) (string, error)
	// Abort discards the staged snapshot
	Abort() error
}

func pageName(prefix string, offset int, now time.Time) string {
	return fmt.Sprintf("%s_page_%d_%s.json", prefix, offset, now.Format(timestampLayout))
}

func snapshotName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_FULL_%s.json", prefix, now.Format(timestampLayout))
}

// Nop discards everything; used when archival is disabled
type Nop struct{}

func (Nop) SavePage(context.Context, string, int, []byte) error { return nil }

func (Nop) BeginSnapshot(context.Context, string) (SnapshotWriter, error) {
	return nopSnapshot{}, nil
}

func (Nop) Cleanup(context.Context, time.Duration) (int, error) { return 0, nil }

type nopSnapshot struct{}

func (nopSnapshot) Append([]models.Document) error { return nil }
func (nopSnapshot) Commit(context.Context) (string, error) { return "", nil }
func (nopSnapshot) Abort() error { return nil }
