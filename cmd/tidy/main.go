// Package main provides the entry point for the tidy CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tidylint/tidy/cmd/tidy/commands"
	"github.com/tidylint/tidy/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tidy",
		Short: "tidy - project convention checker",
		Long: `tidy scans a source tree and reports violations of project conventions:
whitespace hygiene, license headers, per-language idioms, configuration-file
correctness, and shell-script safety rules.

Commands:
  scan          Check the tree against all conventions
  check-config  Validate the tidy configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewCheckConfigCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "tidy %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
