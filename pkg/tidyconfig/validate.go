package tidyconfig

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tidylint/tidy/pkg/diagnostic"
)

// recognizedKeys is the closed set of scalar keys, valid at the top level
// and inside [configs].
var recognizedKeys = map[string]bool{
	"skip-check-length":        true,
	"skip-check-licenses":      true,
	"check-alphabetical-order": true,
	"check-ordering":           true,
	"lint-scripts":             true,
}

// recognizedTables is the closed set of table names.
var recognizedTables = map[string]bool{
	"configs":          true,
	"ignore":           true,
	"check_ext":        true,
	"blocked-packages": true,
}

// ignoreKeys is the closed set of keys inside [ignore].
var ignoreKeys = map[string]bool{
	"files":       true,
	"directories": true,
	"packages":    true,
}

// CheckConfigFile validates the config file at path and lazily yields one
// diagnostic per violation.
//
// Schema violations are reported in document order: unknown top-level keys
// and unknown keys inside recognized tables as "invalid config key", unknown
// tables as "invalid config table" (their contents are then skipped). After
// the schema pass, every [ignore] file entry whose path does not exist
// yields a dangling-reference diagnostic, then every directory entry
// likewise. A syntactically malformed file yields a single config-syntax
// diagnostic and nothing else.
func CheckConfigFile(path string) iter.Seq[diagnostic.Diagnostic] {
	return func(yield func(diagnostic.Diagnostic) bool) {
		data, err := os.ReadFile(path)
		if err != nil {
			yield(diagnostic.New(path, 0, diagnostic.KindConfigSyntax,
				fmt.Sprintf("couldn't read config file: %v", err)))

			return
		}

		cfg := Default()

		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			yield(diagnostic.New(path, 0, diagnostic.KindConfigSyntax,
				fmt.Sprintf("couldn't parse config file: %v", err)))

			return
		}

		if !checkSchema(path, md, yield) {
			return
		}

		checkIgnoreEntries(path, filepath.Dir(path), cfg.Ignore, yield)
	}
}

// checkSchema walks the parsed keys in document order and reports unknown
// keys and tables. Returns false if the consumer stopped the iteration.
func checkSchema(path string, md toml.MetaData, yield func(diagnostic.Diagnostic) bool) bool {
	badTables := map[string]bool{}

	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			name := key[0]
			if md.Type(name) == "Hash" {
				if !recognizedTables[name] {
					badTables[name] = true

					if !yield(diagnostic.New(path, 0, diagnostic.KindConfigTable,
						fmt.Sprintf("invalid config table [%s]", name))) {
						return false
					}
				}

				continue
			}

			if !recognizedKeys[name] {
				if !yield(diagnostic.New(path, 0, diagnostic.KindConfigKey,
					fmt.Sprintf("invalid config key '%s'", name))) {
					return false
				}
			}
		case 2:
			table, name := key[0], key[1]
			if badTables[table] {
				continue
			}

			if !validTableKey(table, name) {
				if !yield(diagnostic.New(path, 0, diagnostic.KindConfigKey,
					fmt.Sprintf("invalid config key '%s'", name))) {
					return false
				}
			}
		}
	}

	return true
}

// validTableKey reports whether a key is recognized inside the given table.
// [check_ext] and [blocked-packages] carry caller-chosen keys.
func validTableKey(table, name string) bool {
	switch table {
	case "configs":
		return recognizedKeys[name]
	case "ignore":
		return ignoreKeys[name]
	default:
		return true
	}
}

// checkIgnoreEntries reports [ignore] entries that reference paths missing
// from disk. Relative entries are resolved against the config file's
// directory; the diagnostic text quotes the entry as written.
func checkIgnoreEntries(path, baseDir string, ignore Ignore, yield func(diagnostic.Diagnostic) bool) {
	for _, file := range ignore.Files {
		if _, err := os.Stat(resolve(baseDir, file)); err != nil {
			if !yield(diagnostic.New(path, 0, diagnostic.KindIgnoredFile,
				fmt.Sprintf("ignored file '%s' doesn't exist", file))) {
				return
			}
		}
	}

	for _, dir := range ignore.Directories {
		info, err := os.Stat(resolve(baseDir, dir))
		if err != nil || !info.IsDir() {
			if !yield(diagnostic.New(path, 0, diagnostic.KindIgnoredDir,
				fmt.Sprintf("ignored directory '%s' doesn't exist", dir))) {
				return
			}
		}
	}
}

func resolve(baseDir, entry string) string {
	if filepath.IsAbs(entry) {
		return entry
	}

	return filepath.Join(baseDir, entry)
}
