package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/buildinfo"
	"github.com/fintrack-dev/fintrack/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal finance tracking and statement import",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init()
		},
	}

	rootCmd.PersistentFlags().String("config", "fintrack.yaml", "path to config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())

	return rootCmd
}
