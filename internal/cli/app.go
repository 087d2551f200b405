package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/iudanet/nvdmirror/internal/archive"
	"github.com/iudanet/nvdmirror/internal/config"
	"github.com/iudanet/nvdmirror/internal/iocli"
	"github.com/iudanet/nvdmirror/internal/storage"
	"github.com/iudanet/nvdmirror/internal/storage/boltdb"
	"github.com/iudanet/nvdmirror/internal/storage/postgres"
	"github.com/iudanet/nvdmirror/internal/storage/sqlite"
)

// app holds state shared by the commands of one invocation
type app struct {
	io         iocli.IO
	v          *viper.Viper
	cfg        *config.Config
	logger     *slog.Logger
	closeLog   func() error
	configFile string
	info       BuildInfo
}

// openRecords opens the configured target store
func (a *app) openRecords(ctx context.Context) (storage.RecordStorage, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverSQLite:
		if err := ensureParentDir(a.cfg.Storage.SQLitePath); err != nil {
			return nil, err
		}
		s, err := sqlite.New(ctx, a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverPostgres:
		pg := a.cfg.Storage.Postgres
		s, err := postgres.New(ctx, pg.ConnString(), pg.MaxConns)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedDriver, a.cfg.Storage.Driver)
	}
}

// openCheckpoints opens the bbolt checkpoint database
func (a *app) openCheckpoints(ctx context.Context) (*boltdb.Storage, error) {
	if err := ensureParentDir(a.cfg.Checkpoint.Path); err != nil {
		return nil, err
	}
	return boltdb.New(ctx, a.cfg.Checkpoint.Path)
}

// newArchiver builds the configured archive backend
func (a *app) newArchiver(ctx context.Context) (archive.Archiver, error) {
	switch a.cfg.Archive.Backend {
	case config.ArchiveNone:
		return archive.Nop{}, nil

	case config.ArchiveFS:
		fs, err := archive.NewFS(a.cfg.Archive.Dir, a.logger)
		if err != nil {
			return nil, err
		}
		return fs, nil

	case config.ArchiveS3:
		s3cfg := a.cfg.Archive.S3
		s3, err := archive.NewS3(ctx, archive.S3Options{
			Bucket:          s3cfg.Bucket,
			Prefix:          s3cfg.Prefix,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			UsePathStyle:    s3cfg.UsePathStyle,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		return s3, nil

	default:
		return nil, fmt.Errorf("unknown archive backend %q", a.cfg.Archive.Backend)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
