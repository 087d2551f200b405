package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

var _ storage.RecordStorage = (*Storage)(nil)

// UpsertRows writes rows in a single transaction.
// On primary key conflict json_data and last_modified are overwritten
func (s *Storage) UpsertRows(ctx context.Context, table string, rows []storage.Row) (n int, err error) {
	if len(rows) == 0 {
		return 0, nil
	}

	entity, err := models.LookupTable(table)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Имена таблицы и колонки берутся только из статического списка сущностей
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, json_data, last_modified)
		VALUES (?, ?, ?)
		ON CONFLICT (%[2]s) DO UPDATE
		SET json_data = excluded.json_data,
		    last_modified = excluded.last_modified
	`, entity.Table, entity.IDColumn)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row.ID, string(row.Payload), timeToMicro(row.LastModified)); err != nil {
			return 0, fmt.Errorf("failed to upsert %s %q: %w", entity.IDColumn, row.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}

	return len(rows), nil
}

// MaxLastModified returns the latest last_modified in table
func (s *Storage) MaxLastModified(ctx context.Context, table string) (time.Time, bool, error) {
	entity, err := models.LookupTable(table)
	if err != nil {
		return time.Time{}, false, err
	}

	var maxTS sql.NullInt64
	query := fmt.Sprintf(`SELECT MAX(last_modified) FROM %s`, entity.Table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&maxTS); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query max last_modified: %w", err)
	}

	if !maxTS.Valid {
		return time.Time{}, false, nil
	}
	return microToTime(maxTS.Int64), true, nil
}

// Stats returns row count and latest modification time of table
func (s *Storage) Stats(ctx context.Context, table string) (*models.TableStats, error) {
	entity, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}

	var (
		count int64
		maxTS sql.NullInt64
	)
	query := fmt.Sprintf(`SELECT COUNT(*), MAX(last_modified) FROM %s`, entity.Table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count, &maxTS); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	stats := &models.TableStats{Table: entity.Table, Count: count}
	if maxTS.Valid {
		ts := microToTime(maxTS.Int64)
		stats.LastModified = &ts
	}
	return stats, nil
}

// last_modified хранится как unix микросекунды (точность TIMESTAMPTZ в PostgreSQL)
func timeToMicro(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func microToTime(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}
