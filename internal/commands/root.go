package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookwright-dev/bookwright/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bookwright",
		Short:   "Tool server and assistant for GnuCash-style ledgers",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newAssistCommand())
	rootCmd.AddCommand(newBreakLockCommand())

	return rootCmd
}
