package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/iudanet/nvdmirror/internal/checkpoint"
	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/internal/storage"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pending full-sweep checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.Context())
		},
	}
}

func (a *app) runStatus(ctx context.Context) error {
	kv, err := a.openCheckpoints(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	store := checkpoint.NewStore(kv, a.logger)
	for _, entity := range models.Entities() {
		cursor, err := store.Get(ctx, entity.Prefix)
		switch {
		case err == nil:
			a.io.Printf("%s: full sweep in progress, resumes at offset %d\n", entity.Name, cursor.NextOffset)
		case errors.Is(err, storage.ErrKeyNotFound):
			a.io.Printf("%s: none\n", entity.Name)
		case errors.Is(err, storage.ErrCorruptCheckpoint):
			a.io.Printf("%s: corrupt checkpoint (will restart from 0)\n", entity.Name)
		default:
			return err
		}
	}
	return nil
}
