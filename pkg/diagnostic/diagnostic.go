// Package diagnostic defines the finding record produced by every check:
// the offending path, an optional 1-based line number, a stable machine
// kind, and the human-readable message.
package diagnostic

import "fmt"

// Kind is a stable identifier for a class of finding. It is meant for
// programmatic filtering; the Message text is for people.
type Kind string

// File and selection findings.
const (
	KindUnreadable  Kind = "unreadable-file"
	KindEmptyFile   Kind = "empty-file"
	KindRuleFailure Kind = "rule-failure"
)

// Line findings.
const (
	KindLineLength         Kind = "line-length"
	KindTrailingWhitespace Kind = "trailing-whitespace"
	KindTab                Kind = "tab"
	KindCR                 Kind = "carriage-return"
	KindNoNewlineAtEOF     Kind = "no-newline-at-eof"
	KindWhatwgUnstableLink Kind = "whatwg-unstable-link"
	KindWhatwgSinglePage   Kind = "whatwg-single-page"
	KindRawURLInDoc        Kind = "raw-url-in-doc"
)

// License and header findings.
const (
	KindLicense          Kind = "license"
	KindShebangBlankLine Kind = "shebang-blank-line"
)

// Shell script findings.
const (
	KindShellShebang   Kind = "shell-shebang"
	KindShellOptions   Kind = "shell-options"
	KindShellBackticks Kind = "shell-backticks"
	KindShellVarForm   Kind = "shell-var-form"
	KindShellCondTest  Kind = "shell-cond-test"
)

// Rust source findings.
const (
	KindModOrder          Kind = "mod-order"
	KindModMultiline      Kind = "mod-multiline"
	KindFeatureOrder      Kind = "feature-order"
	KindDeriveOrder       Kind = "derive-order"
	KindBlankAfterBrace   Kind = "blank-after-brace"
	KindBorrowedType      Kind = "borrowed-type"
	KindUnitReturn        Kind = "unit-return"
	KindOperatorPlacement Kind = "operator-placement"
	KindPanicForbidden    Kind = "panic-forbidden"
	KindBannedType        Kind = "banned-type"
)

// Specification link findings.
const (
	KindMissingSpecLink     Kind = "missing-spec-link"
	KindNoSpecLinkInterface Kind = "no-spec-link-interface"
)

// Manifest and modeline findings.
const (
	KindManifestVersion Kind = "manifest-version"
	KindManifestLicense Kind = "manifest-license"
	KindBlockedPackage  Kind = "blocked-package"
	KindViModeline      Kind = "vi-modeline"
	KindEmacsModeline   Kind = "emacs-modeline"
)

// Configuration findings.
const (
	KindConfigSyntax  Kind = "config-syntax"
	KindConfigKey     Kind = "config-key"
	KindConfigTable   Kind = "config-table"
	KindIgnoredFile   Kind = "ignored-file"
	KindIgnoredDir    Kind = "ignored-directory"
	KindUnexpectedExt Kind = "unexpected-extension"
)

// Diagnostic is one finding against one file.
type Diagnostic struct {
	// Path is the file the finding refers to.
	Path string
	// Line is the 1-based line number, or 0 for whole-file findings.
	Line int
	// Kind classifies the finding.
	Kind Kind
	// Message is the stable human-readable description.
	Message string
}

// New constructs a Diagnostic.
func New(path string, line int, kind Kind, message string) Diagnostic {
	return Diagnostic{Path: path, Line: line, Kind: kind, Message: message}
}

// String renders the finding as "path:line: message", omitting the line
// part for whole-file findings.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
	}

	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}
