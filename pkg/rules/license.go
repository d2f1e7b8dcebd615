package rules

import (
	"regexp"
	"strings"

	"github.com/tidylint/tidy/pkg/diagnostic"
	"github.com/tidylint/tidy/pkg/textutil"
)

// Accepted license header texts, compared against the uncommented and
// whitespace-joined leading comment block.
var acceptedLicenses = []string{
	"This Source Code Form is subject to the terms of the Mozilla Public " +
		"License, v. 2.0. If a copy of the MPL was not distributed with this " +
		"file, You can obtain one at https://mozilla.org/MPL/2.0/.",
	"This Source Code Form is subject to the terms of the Mozilla Public " +
		"License, v. 2.0. If a copy of the MPL was not distributed with this " +
		"file, You can obtain one at http://mozilla.org/MPL/2.0/.",
}

// apacheNotice is accepted only together with a copyright line.
const apacheNotice = "Licensed under the Apache License, Version 2.0"

var copyrightRe = regexp.MustCompile(`Copyright.*[0-9]{4}`)

// xfailLicense acknowledges a known non-matching header.
const xfailLicense = "xfail-license"

// comment prefixes recognized while assembling the header block.
var commentPrefixes = []string{"//! ", "/// ", "// ", "/* ", "# ", "* ", "//!", "///", "//", "#"}

// LicenseRule validates the license header at the top of a source file and
// the blank-line separator after a shebang.
type LicenseRule struct{}

// Name implements WholeFileRule.
func (r *LicenseRule) Name() string { return "license" }

// Applies implements WholeFileRule. Data and markup files carry no header.
func (r *LicenseRule) Applies(path string, _ []byte) bool {
	for _, ext := range []string{".toml", ".lock", ".json", ".html", ".webidl", ".md", ".txt"} {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return true
}

// CheckFile implements WholeFileRule.
func (r *LicenseRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	lines := textutil.SplitLines(content)
	if len(lines) == 0 {
		return nil
	}

	var diags []diagnostic.Diagnostic

	hasShebang := strings.HasPrefix(string(lines[0]), "#!")

	if hasShebang && len(lines) > 1 && strings.TrimSpace(string(lines[1])) != "" {
		diags = append(diags, diagnostic.New(path, 1, diagnostic.KindShebangBlankLine,
			"missing blank line after shebang"))
	}

	header := headerBlock(lines, hasShebang)
	if !validLicense(header) {
		diags = append(diags, diagnostic.New(path, 1, diagnostic.KindLicense, "incorrect license"))
	}

	return diags
}

// headerBlock joins the leading comment lines into one space-separated
// string. Assembly stops at the first run of blank lines exceeding the
// allowance: one blank line normally, two when a shebang precedes the
// header.
func headerBlock(lines [][]byte, hasShebang bool) string {
	maxBlank := 1
	if hasShebang {
		maxBlank = 2
	}

	var (
		parts  []string
		blanks int
	)

	for _, raw := range lines {
		line := strings.TrimSpace(string(textutil.TrimNewline(raw)))
		if line == "" {
			blanks++
			if blanks > maxBlank {
				break
			}

			continue
		}

		text, ok := uncomment(line)
		if ok {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

// uncomment strips a leading comment marker. Non-comment lines are not part
// of the header block.
func uncomment(line string) (string, bool) {
	for _, prefix := range commentPrefixes {
		if !strings.HasPrefix(line, prefix) {
			continue
		}

		text := strings.TrimPrefix(line, prefix)
		text = strings.TrimSuffix(text, "*/")

		return strings.TrimSpace(text), true
	}

	return "", false
}

func validLicense(header string) bool {
	if strings.Contains(header, xfailLicense) {
		return true
	}

	for _, license := range acceptedLicenses {
		if strings.Contains(header, license) {
			return true
		}
	}

	return strings.Contains(header, apacheNotice) && copyrightRe.MatchString(header)
}
