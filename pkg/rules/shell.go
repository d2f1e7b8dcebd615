package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// RequiredShebang is the only accepted interpreter line for shell scripts.
const RequiredShebang = "#!/usr/bin/env bash"

// requiredShellOptions must be set, one per line, as the first non-comment
// statements of every script.
var requiredShellOptions = []string{
	"set -o errexit",
	"set -o nounset",
	"set -o pipefail",
}

// ShellRule enforces the shell-script conventions: exact shebang, mandatory
// safety options, no backtick command substitution, braced variable
// substitutions, and double-bracket conditionals.
type ShellRule struct{}

// Name implements WholeFileRule.
func (r *ShellRule) Name() string { return "shell" }

// Applies implements WholeFileRule.
func (r *ShellRule) Applies(path string, content []byte) bool {
	return isShellFile(path, content)
}

// CheckFile implements WholeFileRule.
func (r *ShellRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	lines := textutil.SplitLines(content)
	if len(lines) == 0 {
		return nil
	}

	var diags []diagnostic.Diagnostic

	first := strings.TrimRight(string(lines[0]), "\r\n")
	if first != RequiredShebang {
		diags = append(diags, diagnostic.New(path, 1, diagnostic.KindShellShebang,
			fmt.Sprintf("script does not have shebang %q", RequiredShebang)))
	}

	// Options still expected at the top of the script; consumed as their
	// set lines are seen.
	missing := make([]string, len(requiredShellOptions))
	copy(missing, requiredShellOptions)

	didOptionsCheck := false

	for idx, raw := range lines[1:] {
		lineno := idx + 2
		line := strings.TrimRight(string(raw), "\r\n")
		stripped := strings.TrimSpace(line)

		// Comments and blank lines carry no statements.
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		if !didOptionsCheck {
			if i := slices.Index(missing, stripped); i >= 0 {
				missing = slices.Delete(missing, i, i+1)

				if len(missing) == 0 {
					didOptionsCheck = true
				}

				continue
			}

			// First real statement reached; anything still unset is
			// reported once, in declaration order.
			if len(missing) > 0 {
				quoted := make([]string, len(missing))
				for i, opt := range missing {
					quoted[i] = fmt.Sprintf("%q", opt)
				}

				diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindShellOptions,
					"script is missing options "+strings.Join(quoted, ", ")))
			}

			didOptionsCheck = true
		}

		if strings.Contains(stripped, "`") {
			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindShellBackticks,
				"script should not use backticks for command substitution"))
		}

		if bareSubstitution(stripped) {
			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindShellVarForm,
				`variable substitutions should use the full "${VAR}" form`))
		}

		if strings.HasPrefix(stripped, "[ ") || strings.Contains(stripped, " [ ") {
			diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindShellCondTest,
				"script should use `[[` instead of `[` for conditional testing"))
		}
	}

	return diags
}

// bareSubstitution reports whether line contains a variable substitution
// that is neither braced nor a $(...) command substitution. Only $ followed
// by a name character counts, so special parameters like $? and a literal
// dollar sign pass.
func bareSubstitution(line string) bool {
	for i := 0; i+1 < len(line); i++ {
		if line[i] != '$' {
			continue
		}

		if isShellNameByte(line[i+1]) {
			return true
		}
	}

	return false
}

func isShellNameByte(b byte) bool {
	return b == '_' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9'
}
