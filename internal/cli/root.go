// Package cli implements the cursorflow CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cursorflow",
	Short: "Live telemetry for multi-lane agent runs",
	Long: `Cursorflow tails the log files of every lane in a run, merges them
into one time-ordered view, and reconciles each lane's declared status
against actual OS process state.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(versionCmd)
}
