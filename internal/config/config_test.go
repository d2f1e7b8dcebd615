package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", opts.Root)
	assert.Equal(t, "tidy.toml", opts.ConfigFile)
	assert.False(t, opts.OnlyChangedFiles)
	assert.False(t, opts.Progress)
	assert.False(t, opts.NoColor)
}

func TestLoad_ExplicitSettingsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	settings := "root: /src\nconfig_file: conventions.toml\nprogress: true\n"
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/src", opts.Root)
	assert.Equal(t, "conventions.toml", opts.ConfigFile)
	assert.True(t, opts.Progress)
	assert.False(t, opts.OnlyChangedFiles)
}

func TestLoad_MalformedSettingsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [unclosed\n"), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read settings")
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("TIDY_ROOT", "/elsewhere")
	t.Setenv("TIDY_NO_COLOR", "true")

	opts, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/elsewhere", opts.Root)
	assert.True(t, opts.NoColor)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
}
