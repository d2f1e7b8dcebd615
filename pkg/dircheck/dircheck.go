// Package dircheck verifies that constrained directories only contain files
// with their allowed extensions.
package dircheck

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/filelist"
)

// Entry constrains one directory to an ordered set of allowed extensions
// (without leading dots).
type Entry struct {
	Directory  string
	Extensions []string
}

// CheckDirectoryFiles lazily verifies each configured directory in order,
// yielding one diagnostic per file whose extension is not allowed. Files
// within a directory are visited in the selector's deterministic traversal
// order; the extension list in the message keeps its configured order.
func CheckDirectoryFiles(entries []Entry) iter.Seq[diagnostic.Diagnostic] {
	return func(yield func(diagnostic.Diagnostic) bool) {
		for _, entry := range entries {
			files, err := filelist.New(entry.Directory, false, nil, false)
			if err != nil {
				if !yield(diagnostic.New(entry.Directory, 0, diagnostic.KindUnreadable,
					fmt.Sprintf("directory is not readable: %v", err))) {
					return
				}

				continue
			}

			for path := range files.Files() {
				ext := strings.TrimPrefix(filepath.Ext(path), ".")
				if slices.Contains(entry.Extensions, ext) {
					continue
				}

				message := fmt.Sprintf(
					"Unexpected extension found for %s. We only expect files with %s extensions in %s",
					filepath.Base(path), strings.Join(entry.Extensions, ", "), entry.Directory)

				if !yield(diagnostic.New(path, 0, diagnostic.KindUnexpectedExt, message)) {
					return
				}
			}
		}
	}
}
