package commands

import (
	"github.com/spf13/cobra"

	"github.com/tidylint/tidy/internal/config"
	"github.com/tidylint/tidy/internal/report"
	"github.com/tidylint/tidy/pkg/tidyconfig"
)

// NewCheckConfigCommand creates the check-config command, which validates
// the tidy configuration file schema and its ignore-list references without
// running a scan.
func NewCheckConfigCommand() *cobra.Command {
	var (
		settingsFile string
		configFile   string
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "check-config [path]",
		Short: "Validate the tidy configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile

			if len(args) == 1 {
				path = args[0]
			}

			if path == "" {
				opts, err := config.Load(settingsFile)
				if err != nil {
					return err
				}

				path = opts.ConfigFile
			}

			printer := report.NewPrinter(cmd.OutOrStdout(), noColor)

			for diag := range tidyconfig.CheckConfigFile(path) {
				printer.Print(diag)
			}

			if printer.Count() > 0 {
				return ErrViolationsFound
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&settingsFile, "settings", "", "runtime settings file")
	cmd.Flags().StringVar(&configFile, "config", "", "tidy configuration file")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}
