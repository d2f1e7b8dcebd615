// Package commands implements CLI command handlers for tidy.
package commands

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidylint/tidy/internal/config"
	"github.com/tidylint/tidy/internal/report"
	"github.com/tidylint/tidy/internal/vcs"
	"github.com/tidylint/tidy/pkg/dircheck"
	"github.com/tidylint/tidy/pkg/filelist"
	"github.com/tidylint/tidy/pkg/pipeline"
	"github.com/tidylint/tidy/pkg/rules"
	"github.com/tidylint/tidy/pkg/tidyconfig"
)

// ErrViolationsFound is returned when the scan produced at least one
// diagnostic; it drives the non-zero exit code.
var ErrViolationsFound = errors.New("convention violations found")

// ScanCommand holds configuration for the scan command.
type ScanCommand struct {
	settingsFile string
	root         string
	configFile   string
	onlyChanged  bool
	progress     bool
	noColor      bool
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	sc := &ScanCommand{}

	cmd := &cobra.Command{
		Use:   "scan [flags]",
		Short: "Check the tree against all conventions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sc.run(cmd)
		},
	}

	cmd.Flags().StringVar(&sc.settingsFile, "settings", "", "runtime settings file")
	cmd.Flags().StringVar(&sc.root, "root", "", "directory tree to scan (default from settings)")
	cmd.Flags().StringVar(&sc.configFile, "config", "", "tidy configuration file (default tidy.toml under root)")
	cmd.Flags().BoolVar(&sc.onlyChanged, "only-changed", false, "check only files changed in version control")
	cmd.Flags().BoolVar(&sc.progress, "progress", false, "show a live file counter")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (sc *ScanCommand) run(cmd *cobra.Command) error {
	opts, err := config.Load(sc.settingsFile)
	if err != nil {
		return err
	}

	sc.applyFlags(cmd, opts)

	configPath := opts.ConfigFile
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(opts.Root, configPath)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(cmd.OutOrStdout(), opts.NoColor)
	start := time.Now()

	// Config file diagnostics come first, then directory-extension checks,
	// then the per-file rule pipeline.
	if _, err := os.Stat(configPath); err == nil {
		for diag := range tidyconfig.CheckConfigFile(configPath) {
			printer.Print(diag)
		}
	}

	for diag := range dircheck.CheckDirectoryFiles(extensionEntries(opts.Root, cfg)) {
		printer.Print(diag)
	}

	files, err := sc.selectFiles(cmd, opts, cfg)
	if err != nil {
		return err
	}

	scanned := 0
	counted := func(yield func(string) bool) {
		for path := range files {
			scanned++

			if !yield(path) {
				return
			}
		}
	}

	registry := rules.NewRegistryWith(rules.Options{
		SkipCheckLength:    cfg.SkipCheckLength,
		SkipCheckLicenses:  cfg.SkipCheckLicenses,
		SkipOrderingChecks: !cfg.CheckAlphabeticalOrder || !cfg.CheckOrdering,
		BlockedPackages:    cfg.BlockedPackages,
	})

	for diag := range pipeline.CollectErrorsForFiles(counted, registry.FileRules(), registry.LineRules()) {
		printer.Print(diag)
	}

	printer.Summary(scanned, time.Since(start))

	if printer.Count() > 0 {
		return ErrViolationsFound
	}

	return nil
}

// applyFlags overlays explicitly set flags onto the loaded settings.
func (sc *ScanCommand) applyFlags(cmd *cobra.Command, opts *config.Options) {
	if cmd.Flags().Changed("root") {
		opts.Root = sc.root
	}

	if cmd.Flags().Changed("config") {
		opts.ConfigFile = sc.configFile
	}

	if cmd.Flags().Changed("only-changed") {
		opts.OnlyChangedFiles = sc.onlyChanged
	}

	if cmd.Flags().Changed("progress") {
		opts.Progress = sc.progress
	}

	if cmd.Flags().Changed("no-color") {
		opts.NoColor = sc.noColor
	}
}

// loadConfig loads the tidy config file, falling back to defaults when the
// file does not exist. A malformed file is a structural failure.
func loadConfig(path string) (*tidyconfig.Config, error) {
	if _, err := os.Stat(path); err != nil {
		slog.Debug("no tidy config file, using defaults", "path", path)

		return tidyconfig.Default(), nil
	}

	return tidyconfig.Load(path)
}

// selectFiles builds the file sequence for the pipeline: the selector's
// traversal, minus ignored files, restricted to checkable extensions.
func (sc *ScanCommand) selectFiles(
	cmd *cobra.Command,
	opts *config.Options,
	cfg *tidyconfig.Config,
) (iter.Seq[string], error) {
	excludeDirs := make([]string, 0, len(cfg.Ignore.Directories))
	for _, dir := range cfg.Ignore.Directories {
		excludeDirs = append(excludeDirs, resolveUnder(opts.Root, dir))
	}

	list, err := filelist.New(opts.Root, opts.OnlyChangedFiles, excludeDirs, opts.Progress)
	if err != nil {
		return nil, err
	}

	if opts.OnlyChangedFiles {
		changed, err := vcs.ChangedFiles(cmd.Context(), opts.Root)
		if err != nil {
			return nil, fmt.Errorf("resolve changed files: %w", err)
		}

		list.SetChangedFiles(changed)
	}

	ignoredFiles := make(map[string]struct{}, len(cfg.Ignore.Files))
	for _, file := range cfg.Ignore.Files {
		ignoredFiles[filepath.Clean(resolveUnder(opts.Root, file))] = struct{}{}
	}

	seq := func(yield func(string) bool) {
		seen := make(map[string]struct{})

		for path := range list.Files() {
			clean := filepath.Clean(path)
			if _, skip := ignoredFiles[clean]; skip {
				continue
			}

			if !rules.Checkable(path) {
				continue
			}

			seen[clean] = struct{}{}

			if !yield(path) {
				return
			}
		}

		// Lint scripts are checked even when their extension would not be,
		// in the order the config lists them.
		for _, script := range cfg.LintScripts {
			clean := filepath.Clean(resolveUnder(opts.Root, script))
			if _, done := seen[clean]; done {
				continue
			}

			seen[clean] = struct{}{}

			if !yield(clean) {
				return
			}
		}
	}

	return seq, nil
}

func resolveUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}

// extensionEntries converts the config's [check_ext] table, preserving its
// document order.
func extensionEntries(root string, cfg *tidyconfig.Config) []dircheck.Entry {
	extRules := cfg.ExtensionRules()

	entries := make([]dircheck.Entry, 0, len(extRules))
	for _, rule := range extRules {
		entries = append(entries, dircheck.Entry{
			Directory:  resolveUnder(root, rule.Directory),
			Extensions: rule.Extensions,
		})
	}

	return entries
}
