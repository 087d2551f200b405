// Package cli implements the nvdmirror command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/nvdmirror/internal/config"
	"github.com/iudanet/nvdmirror/internal/iocli"
	"github.com/iudanet/nvdmirror/internal/logger"
)

// BuildInfo is set via ldflags in main
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// NewRootCommand creates the nvdmirror root command. Output goes to io;
// logs go to the command's stderr.
func NewRootCommand(io iocli.IO, info BuildInfo) *cobra.Command {
	return newRootCommand(&app{
		io:   io,
		v:    config.New(),
		info: info,
	})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nvdmirror",
		Short: "Mirror the NVD CVE and CPE databases",
		Long: `nvdmirror keeps a local relational mirror of the NVD CVE and CPE 2.0 APIs.

Full sweeps are resumable through a persisted checkpoint; later runs fetch
only records modified since the newest stored row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to a YAML config file")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	flags.String("log-format", "auto", "log format (text|json|auto)")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	cmd.AddCommand(newSyncCommand(a))
	cmd.AddCommand(newStatsCommand(a))
	cmd.AddCommand(newStatusCommand(a))
	cmd.AddCommand(newCleanupCommand(a))
	cmd.AddCommand(newVersionCommand(a))

	// cobra не вызывает PostRun после ошибки RunE, поэтому лог закрывается здесь
	for _, sub := range cmd.Commands() {
		if sub.RunE != nil {
			sub.RunE = a.closing(sub.RunE)
		}
	}

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	a.closeLog = closeLog
	return nil
}

// closing wraps run so that the logger is released on every exit path
func (a *app) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}
