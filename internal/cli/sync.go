package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/nvdmirror/internal/archive"
	"github.com/iudanet/nvdmirror/internal/checkpoint"
	"github.com/iudanet/nvdmirror/internal/nvd"
	"github.com/iudanet/nvdmirror/internal/sink"
	nvdsync "github.com/iudanet/nvdmirror/internal/sync"
	"github.com/iudanet/nvdmirror/internal/watermark"
)

func newSyncCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize CVE and CPE records from NVD",
		Long: `Runs one sweep per entity. An empty table (or --force-full) triggers a full,
resumable sweep; otherwise only records modified since the newest stored row
are fetched. Archived pages older than the retention period are removed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSync(cmd.Context())
		},
	}

	cmd.Flags().Bool("force-full", false, "ignore the stored watermark and run a full sweep")
	cmd.Flags().StringSlice("entity", nil, "entities to sync (cve, cpe); repeatable")
	_ = a.v.BindPFlag("sync.force_full", cmd.Flags().Lookup("force-full"))
	_ = a.v.BindPFlag("sync.entities", cmd.Flags().Lookup("entity"))

	return cmd
}

func (a *app) runSync(ctx context.Context) error {
	cfg := a.cfg
	log := a.logger

	log.Info("Starting NVD mirror workflow")

	if cfg.NVD.APIKey == "" {
		log.Error("NVD API key is not configured; set NVD_API_KEY or nvd.api_key")
		return nvd.ErrMissingAPIKey
	}

	entities, err := cfg.Entities()
	if err != nil {
		return err
	}

	records, err := a.openRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}
	defer func() {
		if err := records.Close(); err != nil {
			log.Error("Failed to close target store", "error", err)
		}
	}()

	kv, err := a.openCheckpoints(ctx)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint store: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error("Failed to close checkpoint store", "error", err)
		}
	}()

	// Архив не обязателен для синхронизации
	archiver, err := a.newArchiver(ctx)
	if err != nil {
		log.Warn("Failed to initialize archive, continuing without archival",
			"backend", cfg.Archive.Backend,
			"error", err)
		archiver = archive.Nop{}
	}
	if _, err := archiver.Cleanup(ctx, cfg.Archive.Retention); err != nil {
		log.Warn("Archive cleanup failed", "error", err)
	}

	client := nvd.NewClient(nvd.Options{
		BaseURL:       cfg.NVD.BaseURL,
		APIKey:        cfg.NVD.APIKey,
		PacingDelay:   cfg.NVD.PacingDelay,
		OverloadDelay: cfg.NVD.OverloadDelay,
		RetryDelay:    cfg.NVD.RetryDelay,
		Timeout:       cfg.NVD.Timeout,
		MaxAttempts:   cfg.NVD.MaxAttempts,
	}, log)

	service := nvdsync.NewService(
		client,
		checkpoint.NewStore(kv, log),
		watermark.NewResolver(records, cfg.Sync.WatermarkMargin, log),
		sink.New(records, log),
		archiver,
		nvdsync.Options{
			EndDelay:  cfg.Sync.EndDelay,
			ForceFull: cfg.Sync.ForceFull,
		},
		log,
	)

	results, runErr := service.Run(ctx, entities)

	a.io.Println("=== Synchronization ===")
	for _, r := range results {
		a.io.Printf("%-4s %-12s %-8s pages=%d fetched=%d written=%d skipped=%d offsets=%d..%d duration=%s\n",
			r.Entity, r.Mode, r.State, r.Pages, r.Fetched, r.Written, r.Skipped,
			r.StartOffset, r.EndOffset, r.Duration.Round(time.Millisecond))
	}

	if runErr != nil {
		return runErr
	}
	log.Info("NVD mirror workflow finished")
	return nil
}
