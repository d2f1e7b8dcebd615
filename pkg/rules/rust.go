package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// PanicMessage is emitted for unwrap()/panic!() in must-not-panic files.
const PanicMessage = "unwrap() or panic!() found in code which should not panic."

// DefaultPanicNotAllowedFiles lists files, relative to the scan root, whose
// code must not contain unconditional unwrap or panic calls.
var DefaultPanicNotAllowedFiles = []string{
	"components/compositing/compositor.rs",
	"components/constellation/constellation.rs",
	"ports/servoshell/headed_window.rs",
	"ports/servoshell/headless_window.rs",
}

// bannedType pairs a forbidden type construction with its replacement.
type bannedType struct {
	pattern     *regexp.Regexp
	name        string
	replacement string
}

var bannedTypes = []bannedType{
	{regexp.MustCompile(`\bCell<JSVal>`), "Cell<JSVal>", "MutDom<JSVal>"},
	{regexp.MustCompile(`DomRefCell<Dom<.+>>`), "DomRefCell<Dom<T>>", "MutDom<T>"},
	{regexp.MustCompile(`DomRefCell<Heap<.+>>`), "DomRefCell<Heap<T>>", "MutDom<T>"},
}

// simpleRustRule pairs a pattern applied to the sanitized line with its
// diagnostic kind and message.
type simpleRustRule struct {
	pattern *regexp.Regexp
	kind    diagnostic.Kind
	message string
}

var simpleRustRules = []simpleRustRule{
	{regexp.MustCompile(`: &Vec<[A-Za-z0-9_]+>`), diagnostic.KindBorrowedType, "use &[T] instead of &Vec<T>"},
	{regexp.MustCompile(`: &String\b`), diagnostic.KindBorrowedType, "use &str instead of &String"},
	{regexp.MustCompile(`: &Root<[A-Za-z0-9_]+>`), diagnostic.KindBorrowedType, "use &T instead of &Root<T>"},
	{regexp.MustCompile(`: &DomRoot<[A-Za-z0-9_]+>`), diagnostic.KindBorrowedType, "use &T instead of &DomRoot<T>"},
	{regexp.MustCompile(`->\s*\(\)`), diagnostic.KindUnitReturn, "encountered function signature with -> ()"},
	{regexp.MustCompile(`^(&&|\|\|)`), diagnostic.KindOperatorPlacement, "operators should go at the end of the first line"},
}

var (
	modDeclRe = regexp.MustCompile(`^mod\s+([a-z0-9_]+);$`)
	modOpenRe = regexp.MustCompile(`^(?:pub\s+)?mod\s+([a-z0-9_]+)$`)
	featureRe = regexp.MustCompile(`^#!\[feature\((.*)\)\]`)
	deriveRe  = regexp.MustCompile(`#\[derive\(([A-Za-z0-9, ]+)\)\]`)
	panicRe   = regexp.MustCompile(`unwrap\(|panic!\(`)
)

// RustRule applies the Rust idiom checks: declaration ordering, derive-list
// ordering, brace hygiene, borrowed parameter types, unit return types,
// operator placement, panic avoidance, and the banned-type denylist.
//
// The checks operate on raw text with light structural tracking: string
// literal and comment content is blanked by a per-file sanitizer state so a
// multi-line string can never produce findings.
type RustRule struct {
	// PanicNotAllowedFiles overrides DefaultPanicNotAllowedFiles when
	// non-nil. Matching is by path suffix.
	PanicNotAllowedFiles []string
	// SkipOrderingChecks disables the alphabetical-ordering comparisons
	// for mod declarations, feature attributes, and derive lists.
	SkipOrderingChecks bool
}

// Name implements WholeFileRule.
func (r *RustRule) Name() string { return "rust" }

// Applies implements WholeFileRule.
func (r *RustRule) Applies(path string, _ []byte) bool { return isRustFile(path) }

// rustState is the explicit per-file accumulator threaded through the line
// loop.
type rustState struct {
	inString      bool
	commentDepth  int
	merged        string
	prevMod       map[int]string
	prevFeature   string
	prevOpenBrace bool
}

// CheckFile implements WholeFileRule.
func (r *RustRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	checkPanics := r.panicNotAllowed(path)
	isLibRs := filepath.Base(path) == "lib.rs"

	state := &rustState{prevMod: map[int]string{}}

	for idx, raw := range textutil.SplitLines(content) {
		lineno := idx + 1
		original := string(textutil.TrimNewline(raw))
		trimmed := strings.TrimSpace(original)
		indent := len(original) - len(strings.TrimLeft(original, " \t"))

		line := sanitizeRustLine(trimmed, state)

		// Merge continuation lines so a declaration split with a trailing
		// backslash is analyzed as one line.
		if strings.HasSuffix(line, `\`) {
			state.merged += strings.TrimSuffix(line, `\`)

			continue
		}

		if state.merged != "" {
			line = state.merged + line
			state.merged = ""
		}

		if state.prevOpenBrace && trimmed == "" {
			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindBlankAfterBrace,
				"found an empty line following a {"))
		}

		state.prevOpenBrace = strings.HasSuffix(line, "{")

		if trimmed == "" {
			state.prevFeature = ""
		}

		diags = append(diags, r.checkDeclarations(path, lineno, indent, line, isLibRs, state)...)

		for _, rule := range simpleRustRules {
			if rule.pattern.MatchString(line) {
				diags = append(diags, diagnostic.New(path, lineno, rule.kind, rule.message))
			}
		}

		if checkPanics && panicRe.MatchString(line) {
			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindPanicForbidden, PanicMessage))
		}

		for _, banned := range bannedTypes {
			if banned.pattern.MatchString(line) {
				diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindBannedType,
					fmt.Sprintf("Banned type %s detected. Use %s instead", banned.name, banned.replacement)))
			}
		}
	}

	return diags
}

// checkDeclarations handles mod, feature, and derive ordering.
func (r *RustRule) checkDeclarations(
	path string,
	lineno int,
	indent int,
	line string,
	isLibRs bool,
	state *rustState,
) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	if match := modDeclRe.FindStringSubmatch(line); match != nil {
		name := match[1]
		if prev := state.prevMod[indent]; prev != "" && name < prev && !r.SkipOrderingChecks {
			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindModOrder,
				orderMessage("mod declaration", prev, name)))
		}

		state.prevMod[indent] = name
	} else if modOpenRe.MatchString(line) {
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindModMultiline,
			"mod declaration spans multiple lines"))
	} else if line != "" && !strings.HasPrefix(line, "#[") {
		// A mod block is only contiguous mod declarations; anything else
		// starts a fresh ordering context at this indent.
		delete(state.prevMod, indent)
	}

	if isLibRs && !r.SkipOrderingChecks {
		if match := featureRe.FindStringSubmatch(line); match != nil {
			name := strings.TrimSpace(match[1])
			if state.prevFeature != "" && name < state.prevFeature {
				diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindFeatureOrder,
					orderMessage("feature attribute", state.prevFeature, name)))
			}

			state.prevFeature = name
		}
	}

	if match := deriveRe.FindStringSubmatch(line); match != nil && !r.SkipOrderingChecks {
		derives := strings.Split(match[1], ",")
		for i, d := range derives {
			derives[i] = strings.TrimSpace(d)
		}

		if !slices.IsSorted(derives) {
			sorted := slices.Clone(derives)
			slices.Sort(sorted)

			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindDeriveOrder,
				orderMessage("derivable traits list", strings.Join(sorted, ", "), strings.Join(derives, ", "))))
		}
	}

	return diags
}

func orderMessage(what, expected, found string) string {
	return fmt.Sprintf("%s is not in alphabetical order\n\texpected: %s\n\tfound: %s", what, expected, found)
}

func (r *RustRule) panicNotAllowed(path string) bool {
	files := r.PanicNotAllowedFiles
	if files == nil {
		files = DefaultPanicNotAllowedFiles
	}

	clean := filepath.ToSlash(path)

	for _, f := range files {
		if clean == f || strings.HasSuffix(clean, "/"+f) {
			return true
		}
	}

	return false
}

// sanitizeRustLine blanks string-literal contents, char literals, and
// comments from a trimmed line, carrying string and block-comment state
// across lines. Lines wholly inside a string or block comment sanitize to
// the empty string.
func sanitizeRustLine(line string, state *rustState) string {
	var out strings.Builder

	i := 0

	for i < len(line) {
		if state.inString {
			// Consume until the closing quote, honoring escapes.
			if line[i] == '\\' {
				i += 2

				continue
			}

			if line[i] == '"' {
				state.inString = false
				out.WriteByte('"')
			}

			i++

			continue
		}

		if state.commentDepth > 0 {
			if strings.HasPrefix(line[i:], "*/") {
				state.commentDepth--
				i += 2

				continue
			}

			if strings.HasPrefix(line[i:], "/*") {
				state.commentDepth++
				i += 2

				continue
			}

			i++

			continue
		}

		switch {
		case line[i] == '"':
			state.inString = true

			out.WriteByte('"')

			i++
		case line[i] == '\'' && i+2 < len(line) && (line[i+1] == '\\' && strings.IndexByte(line[i+2:], '\'') >= 0 || line[i+2] == '\''):
			// Char literal; skip to its closing quote.
			end := strings.IndexByte(line[i+1:], '\'')
			i += end + 2
		case strings.HasPrefix(line[i:], "//"):
			return strings.TrimSpace(out.String())
		case strings.HasPrefix(line[i:], "/*"):
			state.commentDepth++
			i += 2
		default:
			out.WriteByte(line[i])
			i++
		}
	}

	return strings.TrimSpace(out.String())
}
