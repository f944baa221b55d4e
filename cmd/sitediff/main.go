package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitediff/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "sitediff",
		Short: "Inventory and compare files across two document sites",
		Long: `sitediff traverses two document sites, reconciles their file
inventories by path, and reports which files exist only on one side and
which exist on both with matching or differing size and modification
time. Each run also exports the combined inventory as CSV.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.NewCompareCommand())
	rootCmd.AddCommand(cli.NewWatchCommand())
	rootCmd.AddCommand(cli.NewHistoryCommand())
	rootCmd.AddCommand(cli.NewAuthCommand())
	rootCmd.AddCommand(cli.NewUnlockCommand())
	rootCmd.AddCommand(cli.NewVersionCommand(version, commit, date))

	return rootCmd.Execute()
}
