package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/nvdmirror/internal/models"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts and the latest modification time per table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStats(cmd.Context())
		},
	}
}

func (a *app) runStats(ctx context.Context) error {
	records, err := a.openRecords(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = records.Close() }()

	for _, entity := range models.Entities() {
		stats, err := records.Stats(ctx, entity.Table)
		if err != nil {
			return err
		}

		a.io.Printf("=== %s ===\n", stats.Table)
		a.io.Printf("Total records: %d\n", stats.Count)
		if stats.LastModified == nil {
			a.io.Println("Last modified: no records")
		} else {
			a.io.Printf("Last modified: %s\n", stats.LastModified.UTC().Format("2006-01-02 15:04:05 MST"))
		}
	}
	return nil
}
