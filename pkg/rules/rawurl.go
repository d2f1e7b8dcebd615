package rules

import (
	"bytes"
	"regexp"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// RawURLMessage is the stable text for KindRawURLInDoc diagnostics.
const RawURLMessage = "Found raw URL in rustdoc. Please escape it with angle brackets or use a markdown link."

var rawURLRe = regexp.MustCompile(`https?://[a-zA-Z0-9.:]+(/[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=]*)?`)

// RawURLRule flags bare URLs in rustdoc comments, where they do not render
// as hyperlinks. A URL wrapped in angle brackets, used as a markdown link
// target, or defined as a markdown reference is left alone.
type RawURLRule struct{}

// Name implements LineRule.
func (r *RawURLRule) Name() string { return "raw-url-in-doc" }

// Applies implements LineRule.
func (r *RawURLRule) Applies(path string, _ []byte) bool { return isRustFile(path) }

// CheckLine implements LineRule.
func (r *RawURLRule) CheckLine(path string, lineno int, line []byte) []diagnostic.Diagnostic {
	return CheckForRawURLsInDoc(path, lineno, textutil.TrimNewline(line))
}

// CheckForRawURLsInDoc inspects one raw line of Rust source and reports
// every bare URL appearing in a `///` or `//!` doc comment. lineno is
// carried through to the diagnostics unchanged.
func CheckForRawURLsInDoc(path string, lineno int, line []byte) []diagnostic.Diagnostic {
	if !bytes.Contains(line, []byte("///")) && !bytes.Contains(line, []byte("//!")) {
		return nil
	}

	var diags []diagnostic.Diagnostic

	for _, loc := range rawURLRe.FindAllIndex(line, -1) {
		if exemptURL(line[:loc[0]]) {
			continue
		}

		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindRawURLInDoc, RawURLMessage))
	}

	return diags
}

// exemptURL reports whether the text preceding a URL marks it as already
// escaped or as part of markdown link syntax.
func exemptURL(prefix []byte) bool {
	// <https://...>
	if bytes.HasSuffix(prefix, []byte("<")) {
		return true
	}

	// [text](https://...)
	if bytes.HasSuffix(prefix, []byte("](")) {
		return true
	}

	// [label]: https://...
	return bytes.HasSuffix(bytes.TrimRight(prefix, " "), []byte("]:"))
}
