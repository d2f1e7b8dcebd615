package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// DefaultSpecBasePath is the directory whose Rust files implement webidl
// interfaces and therefore need specification links on every method.
const DefaultSpecBasePath = "components/script/dom"

// specStopMarker disables the check for the remainder of a file.
const specStopMarker = "// check-tidy: no specs after this line"

var (
	commentLineRe = regexp.MustCompile(`^\s*//.+`)
	macroLineRe   = regexp.MustCompile(`^\s*\S+!(.*)$`)
	specLinkRe    = regexp.MustCompile(`^\s*///? (<)?https://.+`)
	commentAttrRe = regexp.MustCompile(`^\s*(///?.+|#\[.+\])$`)
)

// SpecLinkRule requires every method declared in a webidl interface
// implementation to carry an adjoining comment with a specification link.
//
// The interface implementation block is located by matching
// "impl <Name>Methods for <Name> {" case-insensitively against the file's
// base name, then every fn (or macro-generated method) at its top brace
// level is required to have a run of comment/attribute lines directly above
// it containing a spec URL.
type SpecLinkRule struct {
	// BasePath restricts the rule to files under this directory.
	BasePath string
}

// Name implements WholeFileRule.
func (r *SpecLinkRule) Name() string { return "spec-link" }

// Applies implements WholeFileRule.
func (r *SpecLinkRule) Applies(path string, _ []byte) bool {
	if !strings.HasSuffix(path, ".rs") {
		return false
	}

	base := r.BasePath
	if base == "" {
		base = DefaultSpecBasePath
	}

	return strings.Contains(filepath.ToSlash(path), base)
}

// CheckFile implements WholeFileRule.
func (r *SpecLinkRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	stem := strings.TrimSuffix(filepath.Base(path), ".rs")
	implPattern := strings.ToLower(fmt.Sprintf("impl %sMethods for %s {", stem, stem))

	lines := textutil.SplitLines(content)
	text := make([]string, len(lines))

	for i, raw := range lines {
		text[i] = string(textutil.TrimNewline(raw))
	}

	braceCount := 0
	inImpl := false

	for idx, line := range text {
		if strings.Contains(line, specStopMarker) {
			break
		}

		if commentLineRe.MatchString(line) {
			continue
		}

		if strings.Contains(strings.ToLower(line), implPattern) {
			inImpl = true
		}

		if (strings.Contains(line, "fn ") || macroLineRe.MatchString(line)) && braceCount == 1 {
			if !hasSpecLinkAbove(text, idx) {
				diags = append(diags, diagnostic.New(path, idx+1, diagnostic.KindMissingSpecLink,
					"method declared in webidl is missing a comment with a specification link"))
			}
		}

		if inImpl && strings.Contains(line, "{") {
			braceCount++
		}

		if inImpl && strings.Contains(line, "}") {
			if braceCount == 1 {
				break
			}

			braceCount--
		}
	}

	return diags
}

// hasSpecLinkAbove scans upward through the contiguous comment/attribute run
// above line idx, looking for a spec link.
func hasSpecLinkAbove(lines []string, idx int) bool {
	for up := idx - 1; up >= 0; up-- {
		if specLinkRe.MatchString(lines[up]) {
			return true
		}

		if !commentAttrRe.MatchString(lines[up]) {
			return false
		}
	}

	return false
}

// webidlStandards are the URL prefixes accepted as specification links in
// webidl files.
var webidlStandards = []string{
	"//www.khronos.org/registry/webgl/specs",
	"//www.khronos.org/registry/webgl/extensions",
	"//immersive-web.github.io/webxr",
	"//gpuweb.github.io/gpuweb",
	"//drafts.csswg.org",
	"//drafts.css-houdini.org",
	"//drafts.fxtf.org",
	"//console.spec.whatwg.org",
	"//dom.spec.whatwg.org",
	"//encoding.spec.whatwg.org",
	"//fetch.spec.whatwg.org",
	"//html.spec.whatwg.org",
	"//streams.spec.whatwg.org",
	"//url.spec.whatwg.org",
	"//xhr.spec.whatwg.org",
	"//w3c.github.io",
	"//webaudio.github.io",
	"//webbluetoothcg.github.io/web-bluetooth",
	"//svgwg.org/svg2-draft",
	"//wicg.github.io",
	"//webidl.spec.whatwg.org",
	"//notifications.spec.whatwg.org",
	"//testutils.spec.whatwg.org/",
}

// WebIDLRule requires every webidl interface definition file to contain at
// least one specification link.
type WebIDLRule struct{}

// Name implements WholeFileRule.
func (r *WebIDLRule) Name() string { return "webidl-spec" }

// Applies implements WholeFileRule.
func (r *WebIDLRule) Applies(path string, _ []byte) bool {
	return strings.HasSuffix(path, ".webidl")
}

// CheckFile implements WholeFileRule.
func (r *WebIDLRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	text := string(content)

	for _, standard := range webidlStandards {
		if strings.Contains(text, standard) {
			return nil
		}
	}

	return []diagnostic.Diagnostic{
		diagnostic.New(path, 0, diagnostic.KindNoSpecLinkInterface, "No specification link found."),
	}
}
