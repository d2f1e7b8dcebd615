package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mplHeader = `/* This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/. */
`

// setupTree builds a scan root with a tidy config, one ignored file, one
// excluded directory, one clean file, and one file with violations.
func setupTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	for _, dir := range []string{"skip", "src"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	config := "[ignore]\nfiles = [\"./ignored.rs\"]\ndirectories = [\"./skip\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "tidy.toml"), []byte(config), 0o644))

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}

	write("ignored.rs", "fn main() { \n}\n")
	write(filepath.Join("skip", "bad.rs"), "\tfn main() {}\n")
	write(filepath.Join("src", "ok.rs"), mplHeader+"\nfn main() {}\n")
	write(filepath.Join("src", "bad.rs"), mplHeader+"\nfn main() { \n}\n")

	return root
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestScanCommand_ReportsViolations(t *testing.T) {
	t.Parallel()

	root := setupTree(t)

	out, err := runCommand(t, NewScanCommand(), "--root", root, "--no-color")

	require.ErrorIs(t, err, ErrViolationsFound)
	assert.Contains(t, out, filepath.Join(root, "src", "bad.rs")+":5: trailing whitespace")
	assert.NotContains(t, out, "ignored.rs")
	assert.NotContains(t, out, filepath.Join("skip", "bad.rs"))
	assert.Contains(t, out, "VIOLATIONS")
}

func TestScanCommand_CleanTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.rs"), []byte(mplHeader+"\nfn main() {}\n"), 0o644))

	out, err := runCommand(t, NewScanCommand(), "--root", root, "--no-color")

	require.NoError(t, err)
	assert.Contains(t, out, "FILES SCANNED")
}

func TestScanCommand_ConfigTogglesDisableChecks(t *testing.T) {
	t.Parallel()

	long := "// " + strings.Repeat("x", 130)
	files := func(root string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "nolicense.rs"), []byte("fn main() {}\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "long.rs"), []byte(mplHeader+"\n"+long+"\n"), 0o644))
	}

	strict := t.TempDir()
	files(strict)

	out, err := runCommand(t, NewScanCommand(), "--root", strict, "--no-color")

	require.ErrorIs(t, err, ErrViolationsFound)
	assert.Contains(t, out, "incorrect license")
	assert.Contains(t, out, "Line is longer than 120 characters")

	relaxed := t.TempDir()
	files(relaxed)
	config := "skip-check-length = true\nskip-check-licenses = true\n"
	require.NoError(t, os.WriteFile(filepath.Join(relaxed, "tidy.toml"), []byte(config), 0o644))

	out, err = runCommand(t, NewScanCommand(), "--root", relaxed, "--no-color")

	require.NoError(t, err)
	assert.NotContains(t, out, "incorrect license")
	assert.NotContains(t, out, "Line is longer than 120 characters")
}

func TestScanCommand_LintScriptsChecked(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0o755))

	config := "skip-check-licenses = true\nlint-scripts = [\"./etc/check\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "tidy.toml"), []byte(config), 0o644))

	script := "#!/usr/bin/env bash\n\nset -o errexit\nset -o nounset\nset -o pipefail\n\necho `date`\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "check"), []byte(script), 0o755))

	out, err := runCommand(t, NewScanCommand(), "--root", root, "--no-color")

	require.ErrorIs(t, err, ErrViolationsFound)
	assert.Contains(t, out, filepath.Join(root, "etc", "check")+
		":7: script should not use backticks for command substitution")
}

func TestScanCommand_DanglingIgnoreEntriesReported(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	config := "[ignore]\nfiles = [\"./fake/file.html\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "tidy.toml"), []byte(config), 0o644))

	out, err := runCommand(t, NewScanCommand(), "--root", root, "--no-color")

	require.ErrorIs(t, err, ErrViolationsFound)
	assert.Contains(t, out, "ignored file './fake/file.html' doesn't exist")
}

func TestCheckConfigCommand_ValidFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tidy.toml")
	require.NoError(t, os.WriteFile(path, []byte("check-ordering = true\n"), 0o644))

	out, err := runCommand(t, NewCheckConfigCommand(), "--no-color", path)

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckConfigCommand_SchemaViolations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tidy.toml")
	require.NoError(t, os.WriteFile(path, []byte("bogus-key = true\n"), 0o644))

	out, err := runCommand(t, NewCheckConfigCommand(), "--no-color", path)

	require.ErrorIs(t, err, ErrViolationsFound)
	assert.Contains(t, out, "invalid config key 'bogus-key'")
}
