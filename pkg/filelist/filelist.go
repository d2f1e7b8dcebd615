// Package filelist selects the files a scan operates on. It walks a root
// directory in a deterministic order, prunes excluded directories without
// descending into them, and can restrict the result to an externally
// supplied changed-file set.
package filelist

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// ErrRootNotFound is returned when the configured root path does not exist
// or is not a directory.
var ErrRootNotFound = errors.New("root path is not a directory")

// FileList produces the files under Root that are in scope for checking.
//
// The traversal is depth-first and deterministic: within each directory the
// regular files are yielded first, sorted lexicographically, then each
// subdirectory is descended into, also in lexicographic order. Dotfiles and
// dot-directories are skipped.
type FileList struct {
	// Root is the directory the walk starts from.
	Root string
	// OnlyChangedFiles restricts the walk to paths present in the changed
	// set supplied via SetChangedFiles.
	OnlyChangedFiles bool
	// ExcludeDirs lists directory paths whose whole subtree is skipped.
	// Matching is by path prefix and is evaluated before descending, so an
	// excluded directory is never opened.
	ExcludeDirs []string
	// Progress enables a live file counter on stderr. Display only; it has
	// no effect on which files are selected.
	Progress bool

	changed map[string]struct{}
}

// New validates root and returns a FileList over it.
func New(root string, onlyChanged bool, excludeDirs []string, showProgress bool) (*FileList, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	return &FileList{
		Root:             root,
		OnlyChangedFiles: onlyChanged,
		ExcludeDirs:      excludeDirs,
		Progress:         showProgress,
	}, nil
}

// SetChangedFiles installs the externally supplied changed-file set.
// The list is treated as an opaque membership set; paths are compared after
// cleaning.
func (l *FileList) SetChangedFiles(paths []string) {
	l.changed = make(map[string]struct{}, len(paths))
	for _, p := range paths {
		l.changed[filepath.Clean(p)] = struct{}{}
	}
}

// Files returns a lazy, restartable sequence of file paths. Each iteration
// performs an independent walk; nothing is cached between passes. Paths are
// rooted at Root, so they are absolute whenever Root is.
func (l *FileList) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		var tracker *progress.Tracker

		if l.Progress {
			tracker = l.startProgress()
			defer tracker.MarkAsDone()
		}

		l.walk(filepath.Clean(l.Root), tracker, yield)
	}
}

// walk yields eligible files under dir and recurses into subdirectories.
// It returns false once the consumer stops the iteration.
func (l *FileList) walk(dir string, tracker *progress.Tracker, yield func(string) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("skipping unreadable directory", "dir", dir, "error", err)

		return true
	}

	// ReadDir sorts by name; emit this directory's files before descending.
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !l.selectable(path) {
			continue
		}

		if tracker != nil {
			tracker.Increment(1)
		}

		if !yield(path) {
			return false
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		sub := filepath.Join(dir, entry.Name())
		if l.excluded(sub) {
			continue
		}

		if !l.walk(sub, tracker, yield) {
			return false
		}
	}

	return true
}

func (l *FileList) selectable(path string) bool {
	if l.excluded(path) {
		return false
	}

	if l.OnlyChangedFiles {
		_, ok := l.changed[filepath.Clean(path)]

		return ok
	}

	return true
}

// excluded reports whether path falls under any configured exclude entry.
func (l *FileList) excluded(path string) bool {
	clean := filepath.Clean(path)

	for _, dir := range l.ExcludeDirs {
		prefix := filepath.Clean(dir)
		if clean == prefix || strings.HasPrefix(clean, prefix+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func (l *FileList) startProgress() *progress.Tracker {
	writer := progress.NewWriter()
	writer.SetOutputWriter(os.Stderr)
	writer.SetAutoStop(true)

	tracker := &progress.Tracker{Message: "scanning files"}
	writer.AppendTracker(tracker)

	go writer.Render()

	return tracker
}
