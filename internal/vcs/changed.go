// Package vcs supplies the changed-file set from version control. The scan
// core treats the result purely as an opaque membership set.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// ChangedFiles returns the paths, relative to repoRoot, of files modified
// since HEAD plus untracked files not covered by ignore rules.
func ChangedFiles(ctx context.Context, repoRoot string) ([]string, error) {
	modified, err := gitLines(ctx, repoRoot, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("list modified files: %w", err)
	}

	untracked, err := gitLines(ctx, repoRoot, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("list untracked files: %w", err)
	}

	paths := make([]string, 0, len(modified)+len(untracked))

	for _, rel := range append(modified, untracked...) {
		paths = append(paths, filepath.Join(repoRoot, filepath.FromSlash(rel)))
	}

	return paths, nil
}

// gitLines runs one git subcommand in dir and returns its non-empty output
// lines.
func gitLines(ctx context.Context, dir string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %v: %w", args, err)
	}

	var lines []string

	for _, line := range bytes.Split(out, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, string(line))
		}
	}

	return lines, nil
}
