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

// manifestLicenses are the accepted license declarations in a Cargo
// manifest. A workspace-inherited license also qualifies.
var manifestLicenses = []string{
	`license = "MPL-2.0"`,
	`license-file = "LICENSE"`,
}

var packageNameRe = regexp.MustCompile(`^name\s*=\s*"([^"]+)"`)

// ManifestRule validates Cargo manifests: every dependency needs an explicit
// minimum version, the package needs a recognized license field, and
// dependencies on blocked packages are rejected.
type ManifestRule struct {
	// Blocked maps a banned crate name to the package names still allowed
	// to depend on it.
	Blocked map[string][]string
}

// Name implements WholeFileRule.
func (r *ManifestRule) Name() string { return "manifest" }

// Applies implements WholeFileRule.
func (r *ManifestRule) Applies(path string, _ []byte) bool {
	return filepath.Base(path) == "Cargo.toml"
}

// CheckFile implements WholeFileRule.
func (r *ManifestRule) CheckFile(path string, content []byte) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	licensed := false
	section := ""
	pkgName := ""

	for idx, raw := range textutil.SplitLines(content) {
		line := string(textutil.TrimNewline(raw))

		// A virtual workspace manifest declares no package of its own.
		if idx == 0 && strings.Contains(line, "[workspace]") {
			return nil
		}

		code, _, _ := strings.Cut(line, "#")
		code = strings.TrimSpace(code)

		if strings.HasPrefix(code, "[") {
			section = strings.Trim(code, "[]")
		}

		if section == "package" {
			if match := packageNameRe.FindStringSubmatch(code); match != nil {
				pkgName = match[1]
			}
		}

		if strings.Contains(code, `*"`) {
			diags = append(diags, diagnostic.New(path, idx+1, diagnostic.KindManifestVersion,
				"found asterisk instead of minimum version number"))
		}

		if dep, ok := dependencyName(section, code); ok {
			if exceptions, blocked := r.Blocked[dep]; blocked && !slices.Contains(exceptions, pkgName) {
				diags = append(diags, diagnostic.New(path, idx+1, diagnostic.KindBlockedPackage,
					fmt.Sprintf("found dependency on blocked package %s", dep)))
			}
		}

		for _, license := range manifestLicenses {
			if strings.Contains(code, license) {
				licensed = true
			}
		}

		if strings.Contains(code, "license.workspace") {
			licensed = true
		}
	}

	if !licensed {
		diags = append(diags, diagnostic.New(path, 0, diagnostic.KindManifestLicense,
			".toml file should contain a valid license."))
	}

	return diags
}

// dependencyName extracts the crate named by a dependency assignment line.
// Only lines inside a dependencies table count; "serde = ..." and
// "serde.workspace = true" both name serde.
func dependencyName(section, code string) (string, bool) {
	if !strings.HasSuffix(section, "dependencies") {
		return "", false
	}

	name, _, found := strings.Cut(code, "=")
	if !found {
		return "", false
	}

	name = strings.TrimSpace(name)
	name, _, _ = strings.Cut(name, ".")
	name = strings.Trim(name, `"`)

	if name == "" {
		return "", false
	}

	return name, true
}
