package rules

import (
	"regexp"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// modelineScanLimit bounds how many leading lines are inspected; editors
// only honor modelines near the top or bottom of a file, and tidy bans the
// top form.
const modelineScanLimit = 100

var (
	viModelineRe    = regexp.MustCompile(`^.*[ \t](vi:|vim:|ex:)[ \t]`)
	emacsModelineRe = regexp.MustCompile(`(?i)-\*-.*-\*-`)
)

// ModelineRule flags embedded editor directives: vi modelines and emacs
// file-variable blocks. Tracked sources must not carry per-editor settings.
type ModelineRule struct{}

// Name implements WholeFileRule.
func (r *ModelineRule) Name() string { return "modeline" }

// Applies implements WholeFileRule.
func (r *ModelineRule) Applies(string, []byte) bool { return true }

// CheckFile implements WholeFileRule.
func (r *ModelineRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for idx, raw := range textutil.SplitLines(content) {
		if idx >= modelineScanLimit {
			break
		}

		line := textutil.TrimNewline(raw)

		// A line may carry both forms; each is reported on its own.
		if viModelineRe.Match(line) {
			diags = append(diags, diagnostic.New(path, idx+1, diagnostic.KindViModeline,
				"vi modeline present"))
		}

		if emacsModelineRe.Match(line) {
			diags = append(diags, diagnostic.New(path, idx+1, diagnostic.KindEmacsModeline,
				"emacs file variables present"))
		}
	}

	return diags
}
