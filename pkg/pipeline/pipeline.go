// Package pipeline composes the file selector with the rule registry into
// one lazily evaluated diagnostic sequence.
//
// Evaluation is pull-based: each request for the next diagnostic performs
// exactly the work needed to produce it. Files are opened one at a time, in
// sequence order, and a consumer that stops early causes no further file
// I/O. Within one file the order is fixed: the empty-file short-circuit,
// then every line rule against every line in line order, then every
// whole-file rule in registration order.
package pipeline

import (
	"fmt"
	"iter"
	"os"

	"github.com/src-d/enry/v2"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/rules"
	"github.com/tidylint/tidy/pkg/textutil"
)

// CollectErrorsForFiles applies the given rules to every file in files and
// returns the merged diagnostic sequence. Diagnostics for one file are
// emitted contiguously before the next file is opened.
//
// An unreadable file yields a single unreadable-file diagnostic and the
// scan moves on; a panicking rule yields a rule-failure diagnostic for that
// (file, rule) pair without stopping other rules.
func CollectErrorsForFiles(
	files iter.Seq[string],
	fileRules []rules.WholeFileRule,
	lineRules []rules.LineRule,
) iter.Seq[diagnostic.Diagnostic] {
	return func(yield func(diagnostic.Diagnostic) bool) {
		for path := range files {
			if !checkFile(path, fileRules, lineRules, yield) {
				return
			}
		}
	}
}

// checkFile reads one file and yields all of its diagnostics. Returns false
// once the consumer stops the iteration.
func checkFile(
	path string,
	fileRules []rules.WholeFileRule,
	lineRules []rules.LineRule,
	yield func(diagnostic.Diagnostic) bool,
) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return yield(diagnostic.New(path, 0, diagnostic.KindUnreadable,
			fmt.Sprintf("file is not readable: %v", err)))
	}

	if len(content) == 0 {
		return yield(diagnostic.New(path, 0, diagnostic.KindEmptyFile, "file is empty"))
	}

	// Binary blobs that slip through selection carry no checkable text.
	if enry.IsBinary(content) {
		return true
	}

	applicable := make([]rules.LineRule, 0, len(lineRules))

	for _, rule := range lineRules {
		if rule.Applies(path, content) {
			applicable = append(applicable, rule)
		}
	}

	for lineno, line := range splitNumbered(content) {
		for _, rule := range applicable {
			for _, diag := range runLineRule(rule, path, lineno, line) {
				if !yield(diag) {
					return false
				}
			}
		}
	}

	for _, rule := range fileRules {
		if !rule.Applies(path, content) {
			continue
		}

		for _, diag := range runFileRule(rule, path, content) {
			if !yield(diag) {
				return false
			}
		}
	}

	return true
}

// splitNumbered yields each line with its 1-based line number.
func splitNumbered(content []byte) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for idx, line := range textutil.SplitLines(content) {
			if !yield(idx+1, line) {
				return
			}
		}
	}
}

// runLineRule isolates a line rule invocation: a panic becomes a
// rule-failure diagnostic instead of aborting the scan.
func runLineRule(rule rules.LineRule, path string, lineno int, line []byte) (diags []diagnostic.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diags = []diagnostic.Diagnostic{diagnostic.New(path, lineno, diagnostic.KindRuleFailure,
				fmt.Sprintf("check '%s' failed: %v", rule.Name(), r))}
		}
	}()

	return rule.CheckLine(path, lineno, line)
}

// runFileRule isolates a whole-file rule invocation the same way.
func runFileRule(rule rules.WholeFileRule, path string, content []byte) (diags []diagnostic.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diags = []diagnostic.Diagnostic{diagnostic.New(path, 0, diagnostic.KindRuleFailure,
				fmt.Sprintf("check '%s' failed: %v", rule.Name(), r))}
		}
	}()

	return rule.CheckFile(path, content)
}
