// Package config loads the tool's runtime options from flags, environment
// variables, and an optional settings file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// configName is the settings file name without extension.
const configName = ".tidyrc"

// configType is the settings file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for tidy settings.
const envPrefix = "TIDY"

// Options holds the runtime options of a scan. These control how the scan
// runs, not what it checks; the checked conventions live in the tidy config
// file validated by tidyconfig.
type Options struct {
	// Root is the directory tree to scan.
	Root string `mapstructure:"root"`
	// ConfigFile is the tidy configuration path, relative to Root when not
	// absolute.
	ConfigFile string `mapstructure:"config_file"`
	// OnlyChangedFiles restricts the scan to files reported by version
	// control.
	OnlyChangedFiles bool `mapstructure:"only_changed_files"`
	// Progress enables the live file counter.
	Progress bool `mapstructure:"progress"`
	// NoColor disables colored diagnostic output.
	NoColor bool `mapstructure:"no_color"`
}

// Load reads options from file, env vars, and defaults. If configPath is
// non-empty it is used as the explicit settings file path; otherwise the
// file is searched in the working directory. A missing settings file is not
// an error; defaults are used.
func Load(configPath string) (*Options, error) {
	viperCfg := viper.New()

	viperCfg.SetDefault("root", ".")
	viperCfg.SetDefault("config_file", "tidy.toml")
	viperCfg.SetDefault("only_changed_files", false)
	viperCfg.SetDefault("progress", false)
	viperCfg.SetDefault("no_color", false)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read settings: %w", readErr)
		}
	}

	var opts Options

	unmarshalErr := viperCfg.Unmarshal(&opts)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", unmarshalErr)
	}

	return &opts, nil
}
