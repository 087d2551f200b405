package storage

import (
	"context"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
)

//go:generate moq -out records_mock.go . RecordStorage

// Row is the durable projection of a record in a target table
type Row struct {
	LastModified time.Time
	ID           string
	Payload      []byte
}

// RecordStorage defines the target relational store
type RecordStorage interface {
	// UpsertRows writes rows into table in a single transaction.
	// On primary key conflict payload and last_modified are overwritten.
	// Returns the number of rows written
	UpsertRows(ctx context.Context, table string, rows []Row) (int, error)

	// MaxLastModified returns the latest last_modified in table.
	// ok is false when the table is empty
	MaxLastModified(ctx context.Context, table string) (ts time.Time, ok bool, err error)

	// Stats returns row count and latest modification time of table
	Stats(ctx context.Context, table string) (*models.TableStats, error)

	// Close releases the underlying connections
	Close() error
}
