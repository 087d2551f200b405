package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/nvdmirror/internal/stub"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

type options struct {
	addr       string
	dataDir    string
	apiKey     string
	rateWindow time.Duration
	rateLimit  int
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "nvdstub",
		Short: "Serve the NVD 2.0 pagination API from local snapshot files",
		Long: `nvdstub loads the newest cve_data_FULL_*.json and cpe_data_FULL_*.json
snapshots from --data-dir and serves them on /rest/json/cves/2.0 and
/rest/json/cpes/2.0, so nvdmirror can be exercised without NVD.`,
		Version:      fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "data", "directory with *_FULL_*.json snapshots")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "require this apiKey header when set")
	cmd.Flags().IntVar(&opts.rateLimit, "rate-limit", 50, "requests per window per client (0 disables)")
	cmd.Flags().DurationVar(&opts.rateWindow, "rate-window", 30*time.Second, "rate limit window")

	return cmd
}

func serve(ctx context.Context, opts options) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dataset, err := stub.LoadDir(opts.dataDir)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	handler := stub.New(stub.Options{
		Dataset:    dataset,
		APIKey:     opts.apiKey,
		RateLimit:  opts.rateLimit,
		RateWindow: opts.rateWindow,
	}, logger)
	defer handler.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Stub server starting", "addr", opts.addr, "data_dir", opts.dataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down stub server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
