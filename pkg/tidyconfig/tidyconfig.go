// Package tidyconfig loads and validates the tidy configuration file.
//
// The file is TOML with a closed schema: a fixed set of recognized top-level
// keys, a [configs] table mirroring them, an [ignore] table listing files
// and directories to skip, a [check_ext] table constraining directories to
// extension sets, and a [blocked-packages] table. Anything else is a schema
// violation reported by CheckConfigFile.
package tidyconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the config file name looked up under the scan root.
const DefaultFileName = "tidy.toml"

// Settings holds the scalar knobs recognized both at the top level and
// inside the [configs] table.
type Settings struct {
	SkipCheckLength        bool     `toml:"skip-check-length"`
	SkipCheckLicenses      bool     `toml:"skip-check-licenses"`
	CheckAlphabeticalOrder bool     `toml:"check-alphabetical-order"`
	CheckOrdering          bool     `toml:"check-ordering"`
	LintScripts            []string `toml:"lint-scripts"`
}

// Ignore lists paths excluded from scanning. Entries are resolved relative
// to the directory containing the config file.
type Ignore struct {
	Files       []string `toml:"files"`
	Directories []string `toml:"directories"`
	Packages    []string `toml:"packages"`
}

// ExtensionRule constrains one directory to a set of allowed extensions.
// The order of both the rules and the extension lists follows the document.
type ExtensionRule struct {
	Directory  string
	Extensions []string
}

// Config is the parsed tidy configuration.
type Config struct {
	SkipCheckLength        bool     `toml:"skip-check-length"`
	SkipCheckLicenses      bool     `toml:"skip-check-licenses"`
	CheckAlphabeticalOrder bool     `toml:"check-alphabetical-order"`
	CheckOrdering          bool     `toml:"check-ordering"`
	LintScripts            []string `toml:"lint-scripts"`

	Configs         Settings            `toml:"configs"`
	Ignore          Ignore              `toml:"ignore"`
	CheckExt        map[string][]string `toml:"check_ext"`
	BlockedPackages map[string][]string `toml:"blocked-packages"`

	extOrder []string
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		CheckAlphabeticalOrder: true,
		CheckOrdering:          true,
	}
}

// Load reads and parses the config file at path. A malformed file is a
// structural failure and returns an error; schema violations do not (they
// are CheckConfigFile's concern).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.extOrder = checkExtOrder(md)
	cfg.applyConfigsTable(md)

	return cfg, nil
}

// applyConfigsTable overlays [configs] values onto the top-level knobs.
// Only keys actually present in the table win over the top level.
func (c *Config) applyConfigsTable(md toml.MetaData) {
	if md.IsDefined("configs", "skip-check-length") {
		c.SkipCheckLength = c.Configs.SkipCheckLength
	}
	if md.IsDefined("configs", "skip-check-licenses") {
		c.SkipCheckLicenses = c.Configs.SkipCheckLicenses
	}
	if md.IsDefined("configs", "check-alphabetical-order") {
		c.CheckAlphabeticalOrder = c.Configs.CheckAlphabeticalOrder
	}
	if md.IsDefined("configs", "check-ordering") {
		c.CheckOrdering = c.Configs.CheckOrdering
	}
	if md.IsDefined("configs", "lint-scripts") {
		c.LintScripts = c.Configs.LintScripts
	}
}

// ExtensionRules returns the [check_ext] entries in document order.
func (c *Config) ExtensionRules() []ExtensionRule {
	rules := make([]ExtensionRule, 0, len(c.CheckExt))

	for _, dir := range c.extOrder {
		rules = append(rules, ExtensionRule{Directory: dir, Extensions: c.CheckExt[dir]})
	}

	return rules
}

// checkExtOrder extracts the [check_ext] directory keys in the order they
// appear in the document.
func checkExtOrder(md toml.MetaData) []string {
	var order []string

	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == "check_ext" {
			order = append(order, key[1])
		}
	}

	return order
}
