package cli

import "github.com/spf13/cobra"

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.io.Println("nvdmirror")
			a.io.Printf("Version:    %s\n", a.info.Version)
			a.io.Printf("Build Date: %s\n", a.info.BuildDate)
			a.io.Printf("Git Commit: %s\n", a.info.GitCommit)
		},
	}
}
