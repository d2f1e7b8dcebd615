// Package rules implements the convention checks applied to selected files:
// line rules run against every line of every text file, and whole-file rules
// run once per file when their classification matches.
package rules

import (
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/tidylint/tidy/pkg/diagnostic"
)

// LineRule is a check applied independently to each line of a file.
// Implementations must be stateless across files; any per-file context is
// threaded through the whole-file rules instead.
type LineRule interface {
	// Name identifies the rule in logs and failure diagnostics.
	Name() string
	// Applies reports whether the rule runs against this file.
	Applies(path string, content []byte) bool
	// CheckLine inspects one raw line, terminator included. lineno is
	// 1-based.
	CheckLine(path string, lineno int, line []byte) []diagnostic.Diagnostic
}

// WholeFileRule is a check applied once to a file's full content. Rules
// needing cross-line context (brace depth, declaration order) keep that
// state in an explicit per-invocation accumulator, never in the rule value.
type WholeFileRule interface {
	Name() string
	Applies(path string, content []byte) bool
	CheckFile(path string, content []byte) []diagnostic.Diagnostic
}

// Registry is the fixed dispatch structure for a scan: an ordered list of
// line rules plus an ordered list of whole-file rules. Order is registration
// order and determines emission order within a file.
type Registry struct {
	line []LineRule
	file []WholeFileRule
}

// Options selects which rule families NewRegistryWith includes, mirroring
// the toggles of the tidy config file.
type Options struct {
	// SkipCheckLength drops the line-length rule.
	SkipCheckLength bool
	// SkipCheckLicenses drops the license-header rule.
	SkipCheckLicenses bool
	// SkipOrderingChecks disables the alphabetical-ordering comparisons of
	// the Rust rule (mod, feature, derive). The rule's other checks still
	// run.
	SkipOrderingChecks bool
	// BlockedPackages maps a banned crate name to the packages still
	// allowed to depend on it, enforced by the manifest rule.
	BlockedPackages map[string][]string
}

// NewRegistry returns a registry populated with the canonical rule set in
// its canonical order.
func NewRegistry() *Registry {
	return NewRegistryWith(Options{})
}

// NewRegistryWith returns the canonical registry with the given toggles
// applied. Dropped rules leave the relative order of the rest unchanged.
func NewRegistryWith(opts Options) *Registry {
	line := make([]LineRule, 0, 5)

	if !opts.SkipCheckLength {
		line = append(line, &LineLengthRule{Max: MaxLineLength})
	}

	line = append(line,
		&WhitespaceRule{},
		&WhatwgUnstableLinkRule{},
		&WhatwgSinglePageRule{},
		&RawURLRule{},
	)

	file := make([]WholeFileRule, 0, 7)

	if !opts.SkipCheckLicenses {
		file = append(file, &LicenseRule{})
	}

	file = append(file,
		&ShellRule{},
		&RustRule{SkipOrderingChecks: opts.SkipOrderingChecks},
		&SpecLinkRule{BasePath: DefaultSpecBasePath},
		&WebIDLRule{},
		&ManifestRule{Blocked: opts.BlockedPackages},
		&ModelineRule{},
	)

	return &Registry{line: line, file: file}
}

// LineRules returns the registered line rules in order.
func (r *Registry) LineRules() []LineRule { return r.line }

// FileRules returns the registered whole-file rules in order.
func (r *Registry) FileRules() []WholeFileRule { return r.file }

// CheckedExtensions is the extension set the default scan feeds through the
// registry.
var CheckedExtensions = map[string]bool{
	".rs":     true,
	".toml":   true,
	".webidl": true,
	".sh":     true,
	".py":     true,
	".md":     true,
	".json":   true,
	".html":   true,
}

// Checkable reports whether the default scan should feed path through the
// registry, by extension alone so selection never has to read the file.
func Checkable(path string) bool {
	return CheckedExtensions[strings.ToLower(filepath.Ext(path))]
}

// isRustFile reports whether path is Rust source, excluding generated
// template output.
func isRustFile(path string) bool {
	return strings.HasSuffix(path, ".rs") && !strings.HasSuffix(path, ".mako.rs")
}

// isShellFile reports whether path is a shell script, by extension or by
// enry's content classification.
func isShellFile(path string, content []byte) bool {
	if strings.HasSuffix(path, ".sh") {
		return true
	}

	if filepath.Ext(path) != "" {
		return false
	}

	return enry.GetLanguage(filepath.Base(path), content) == "Shell"
}
