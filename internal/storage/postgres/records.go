package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

var _ storage.RecordStorage = (*Storage)(nil)

// UpsertRows writes rows as one pgx batch inside a transaction
func (s *Storage) UpsertRows(ctx context.Context, table string, rows []storage.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	entity, err := models.LookupTable(table)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, json_data, last_modified)
		VALUES ($1, $2, $3)
		ON CONFLICT (%[2]s) DO UPDATE
		SET json_data = EXCLUDED.json_data,
		    last_modified = EXCLUDED.last_modified
	`, entity.Table, entity.IDColumn)

	written := 0
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(query, row.ID, string(row.Payload), row.LastModified.UTC())
		}

		br := tx.SendBatch(ctx, batch)
		for i := range rows {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to upsert %s %q: %w", entity.IDColumn, rows[i].ID, err)
			}
			written++
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// MaxLastModified returns the latest last_modified in table
func (s *Storage) MaxLastModified(ctx context.Context, table string) (time.Time, bool, error) {
	entity, err := models.LookupTable(table)
	if err != nil {
		return time.Time{}, false, err
	}

	var maxTS *time.Time
	query := fmt.Sprintf(`SELECT MAX(last_modified) FROM %s`, entity.Table)
	if err := s.pool.QueryRow(ctx, query).Scan(&maxTS); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query max last_modified: %w", err)
	}

	if maxTS == nil {
		return time.Time{}, false, nil
	}
	return maxTS.UTC(), true, nil
}

// Stats returns row count and latest modification time of table
func (s *Storage) Stats(ctx context.Context, table string) (*models.TableStats, error) {
	entity, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}

	stats := &models.TableStats{Table: entity.Table}
	query := fmt.Sprintf(`SELECT COUNT(*), MAX(last_modified) FROM %s`, entity.Table)
	if err := s.pool.QueryRow(ctx, query).Scan(&stats.Count, &stats.LastModified); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	if stats.LastModified != nil {
		ts := stats.LastModified.UTC()
		stats.LastModified = &ts
	}
	return stats, nil
}
