package rules

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// MaxLineLength is the line length bound enforced by LineLengthRule.
const MaxLineLength = 120

// longURLTokenLength is the shortest whitespace-delimited URL token that
// exempts its line from the length bound. Long links cannot be wrapped.
const longURLTokenLength = 80

// LineLengthRule flags lines longer than Max characters.
type LineLengthRule struct {
	Max int
}

// Name implements LineRule.
func (r *LineLengthRule) Name() string { return "line-length" }

// Applies implements LineRule. Data formats with generated long lines are
// exempt.
func (r *LineLengthRule) Applies(path string, _ []byte) bool {
	for _, ext := range []string{".lock", ".json", ".html", ".toml"} {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return true
}

// CheckLine implements LineRule.
func (r *LineLengthRule) CheckLine(path string, lineno int, line []byte) []diagnostic.Diagnostic {
	body := bytes.TrimRight(textutil.TrimNewline(line), "\r")
	if len(body) <= r.Max || hasLongURL(body) {
		return nil
	}

	return []diagnostic.Diagnostic{
		diagnostic.New(path, lineno, diagnostic.KindLineLength,
			fmt.Sprintf("Line is longer than %d characters", r.Max)),
	}
}

func hasLongURL(body []byte) bool {
	for _, token := range bytes.Fields(body) {
		if len(token) >= longURLTokenLength && bytes.Contains(token, []byte("://")) {
			return true
		}
	}

	return false
}

// WhitespaceRule flags trailing whitespace, tab characters, carriage
// returns, and lines not terminated by a newline.
//
// Lines are split with their terminators kept, so "no newline at EOF" fires
// for every line whose terminator is not "\n": the unterminated final line,
// and any interior line ended by a bare CR. That makes the rule able to fire
// more than once per file.
type WhitespaceRule struct{}

// Name implements LineRule.
func (r *WhitespaceRule) Name() string { return "whitespace" }

// Applies implements LineRule.
func (r *WhitespaceRule) Applies(string, []byte) bool { return true }

// CheckLine implements LineRule.
func (r *WhitespaceRule) CheckLine(path string, lineno int, line []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	if !textutil.EndsInNewline(line) {
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindNoNewlineAtEOF,
			"no newline at EOF"))
	}

	// Only the LF is stripped: a CR left by a CRLF terminator must still
	// trip the CR check below.
	body := textutil.TrimNewline(line)

	if len(bytes.TrimRight(body, " ")) != len(body) {
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindTrailingWhitespace,
			"trailing whitespace"))
	}

	if bytes.ContainsRune(body, '\t') {
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindTab,
			"tab on line"))
	}

	if bytes.ContainsRune(body, '\r') {
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindCR,
			"CR on line"))
	}

	return diags
}

var (
	whatwgUnstableRe   = regexp.MustCompile(`https://html\.spec\.whatwg\.org/multipage/[\w-]+\.html#([\w':-]+)`)
	whatwgSinglePageRe = regexp.MustCompile(`https://html\.spec\.whatwg\.org/#([\w':-]+)`)
)

// WhatwgUnstableLinkRule flags links into a specific multipage page of the
// WHATWG HTML standard. Page names change when sections move; the anchor
// form is stable.
type WhatwgUnstableLinkRule struct{}

// Name implements LineRule.
func (r *WhatwgUnstableLinkRule) Name() string { return "whatwg-unstable-link" }

// Applies implements LineRule.
func (r *WhatwgUnstableLinkRule) Applies(string, []byte) bool { return true }

// CheckLine implements LineRule.
func (r *WhatwgUnstableLinkRule) CheckLine(path string, lineno int, line []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, match := range whatwgUnstableRe.FindAllSubmatch(textutil.TrimNewline(line), -1) {
		preferred := "https://html.spec.whatwg.org/multipage/#" + string(match[1])
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindWhatwgUnstableLink,
			"link to WHATWG may break in the future, use this format instead: "+preferred))
	}

	return diags
}

// WhatwgSinglePageRule flags links to the single-page edition of the WHATWG
// HTML standard, which is too large to load; the multipage edition serves
// the same anchors.
type WhatwgSinglePageRule struct{}

// Name implements LineRule.
func (r *WhatwgSinglePageRule) Name() string { return "whatwg-single-page" }

// Applies implements LineRule.
func (r *WhatwgSinglePageRule) Applies(string, []byte) bool { return true }

// CheckLine implements LineRule.
func (r *WhatwgSinglePageRule) CheckLine(path string, lineno int, line []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, match := range whatwgSinglePageRe.FindAllSubmatch(textutil.TrimNewline(line), -1) {
		preferred := "https://html.spec.whatwg.org/multipage/#" + string(match[1])
		diags = append(diags, diagnostic.New(path, lineno, diagnostic.KindWhatwgSinglePage,
			"links to WHATWG single-page url, change to multi page: "+preferred))
	}

	return diags
}
