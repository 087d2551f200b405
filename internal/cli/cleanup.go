package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func newCleanupCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete archived API pages older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCleanup(cmd.Context(), yes)
		},
	}

	cmd.Flags().Duration("retention", 0, "override archive.retention (e.g. 720h)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = a.v.BindPFlag("archive.retention", cmd.Flags().Lookup("retention"))

	return cmd
}

func (a *app) runCleanup(ctx context.Context, yes bool) error {
	retention := a.cfg.Archive.Retention

	if !yes {
		answer, err := a.io.ReadInput("Delete archived pages older than " + retention.String() + "? [y/N]: ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			a.io.Println("Aborted.")
			return nil
		}
	}

	archiver, err := a.newArchiver(ctx)
	if err != nil {
		return err
	}

	deleted, err := archiver.Cleanup(ctx, retention)
	if err != nil {
		return err
	}
	a.io.Printf("Deleted %d archived pages older than %s\n", deleted, retention)
	return nil
}
