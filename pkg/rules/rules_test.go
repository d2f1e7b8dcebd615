package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidylint/tidy/pkg/diagnostic"
)

func TestNewRegistry_CanonicalOrder(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	lineNames := make([]string, 0, len(registry.LineRules()))
	for _, r := range registry.LineRules() {
		lineNames = append(lineNames, r.Name())
	}

	fileNames := make([]string, 0, len(registry.FileRules()))
	for _, r := range registry.FileRules() {
		fileNames = append(fileNames, r.Name())
	}

	assert.Equal(t, []string{
		"line-length",
		"whitespace",
		"whatwg-unstable-link",
		"whatwg-single-page",
		"raw-url-in-doc",
	}, lineNames)
	assert.Equal(t, []string{
		"license",
		"shell",
		"rust",
		"spec-link",
		"webidl-spec",
		"manifest",
		"modeline",
	}, fileNames)
}

func TestNewRegistryWith_Toggles(t *testing.T) {
	t.Parallel()

	lineNames := func(r *Registry) []string {
		names := make([]string, 0, len(r.LineRules()))
		for _, rule := range r.LineRules() {
			names = append(names, rule.Name())
		}

		return names
	}
	fileNames := func(r *Registry) []string {
		names := make([]string, 0, len(r.FileRules()))
		for _, rule := range r.FileRules() {
			names = append(names, rule.Name())
		}

		return names
	}

	short := NewRegistryWith(Options{SkipCheckLength: true})
	assert.Equal(t, []string{
		"whitespace",
		"whatwg-unstable-link",
		"whatwg-single-page",
		"raw-url-in-doc",
	}, lineNames(short))
	assert.Equal(t, fileNames(NewRegistry()), fileNames(short))

	unlicensed := NewRegistryWith(Options{SkipCheckLicenses: true})
	assert.Equal(t, []string{
		"shell",
		"rust",
		"spec-link",
		"webidl-spec",
		"manifest",
		"modeline",
	}, fileNames(unlicensed))
	assert.Equal(t, lineNames(NewRegistry()), lineNames(unlicensed))
}

func TestNewRegistryWith_PropagatesRuleParameters(t *testing.T) {
	t.Parallel()

	blocked := map[string][]string{"rand": {"servo-rand"}}
	registry := NewRegistryWith(Options{SkipOrderingChecks: true, BlockedPackages: blocked})

	var rust *RustRule
	var manifest *ManifestRule

	for _, rule := range registry.FileRules() {
		switch r := rule.(type) {
		case *RustRule:
			rust = r
		case *ManifestRule:
			manifest = r
		}
	}

	require.NotNil(t, rust)
	require.NotNil(t, manifest)
	assert.True(t, rust.SkipOrderingChecks)
	assert.Equal(t, blocked, manifest.Blocked)
}

func TestCheckable_ByExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, Checkable("components/script/dom/node.rs"))
	assert.True(t, Checkable("Cargo.toml"))
	assert.True(t, Checkable("etc/run.sh"))
	assert.True(t, Checkable("interfaces/Node.webidl"))
	assert.True(t, Checkable("README.MD"))

	assert.False(t, Checkable("image.png"))
	assert.False(t, Checkable("Makefile"))
	assert.False(t, Checkable("main.go"))
}

func TestIsShellFile(t *testing.T) {
	t.Parallel()

	assert.True(t, isShellFile("etc/run.sh", nil))
	assert.True(t, isShellFile("etc/run", []byte("#!/usr/bin/env bash\necho hi\n")))

	assert.False(t, isShellFile("etc/run.py", []byte("#!/usr/bin/env bash\n")))
	assert.False(t, isShellFile("etc/data", []byte("just some words\n")))
}

func TestLineLengthRule_LongURLExempt(t *testing.T) {
	t.Parallel()

	rule := &LineLengthRule{Max: MaxLineLength}

	long := "// See https://example.com/" + strings.Repeat("a", 100) + " for details"
	require.Greater(t, len(long), MaxLineLength)

	assert.Empty(t, rule.CheckLine("test.rs", 1, []byte(long+"\n")))

	noURL := "// " + strings.Repeat("word ", 30)
	require.Greater(t, len(noURL), MaxLineLength)

	diags := rule.CheckLine("test.rs", 1, []byte(noURL+"\n"))
	require.Len(t, diags, 1)
	assert.Equal(t, "Line is longer than 120 characters", diags[0].Message)
}

func TestLineLengthRule_SkipsDataFormats(t *testing.T) {
	t.Parallel()

	rule := &LineLengthRule{Max: MaxLineLength}

	assert.True(t, rule.Applies("src/main.rs", nil))
	assert.False(t, rule.Applies("Cargo.lock", nil))
	assert.False(t, rule.Applies("package.json", nil))
	assert.False(t, rule.Applies("index.html", nil))
	assert.False(t, rule.Applies("Cargo.toml", nil))
}

func TestRustRule_SkipOrderingChecks(t *testing.T) {
	t.Parallel()

	content := []byte(strings.Join([]string{
		"#![feature(dog)]",
		"#![feature(cat)]",
		"",
		"mod zebra;",
		"mod alpha;",
		"",
		"#[derive(Debug, Clone)]",
		"fn f(x: &String) {}",
	}, "\n") + "\n")

	strict := (&RustRule{}).CheckFile("lib.rs", content)
	require.Len(t, strict, 4)
	assert.Equal(t, diagnostic.KindFeatureOrder, strict[0].Kind)
	assert.Equal(t, diagnostic.KindModOrder, strict[1].Kind)
	assert.Equal(t, diagnostic.KindDeriveOrder, strict[2].Kind)
	assert.Equal(t, diagnostic.KindBorrowedType, strict[3].Kind)

	// The non-ordering checks still run with ordering disabled.
	relaxed := (&RustRule{SkipOrderingChecks: true}).CheckFile("lib.rs", content)
	require.Len(t, relaxed, 1)
	assert.Equal(t, diagnostic.KindBorrowedType, relaxed[0].Kind)
}

func TestManifestRule_BlockedPackages(t *testing.T) {
	t.Parallel()

	manifest := func(pkg string) []byte {
		return []byte(strings.Join([]string{
			`[package]`,
			`name = "` + pkg + `"`,
			`license = "MPL-2.0"`,
			``,
			`[dependencies]`,
			`rand = "0.8"`,
			`num = "0.4"`,
			``,
			`[dev-dependencies]`,
			`rand.workspace = true`,
		}, "\n") + "\n")
	}

	rule := &ManifestRule{Blocked: map[string][]string{
		"rand": {"servo-rand"},
		"num":  nil,
	}}

	// servo-rand is on rand's exception list, so only num is flagged.
	diags := rule.CheckFile("a/Cargo.toml", manifest("servo-rand"))
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.KindBlockedPackage, diags[0].Kind)
	assert.Equal(t, "found dependency on blocked package num", diags[0].Message)
	assert.Equal(t, 7, diags[0].Line)

	diags = rule.CheckFile("b/Cargo.toml", manifest("other"))
	require.Len(t, diags, 3)
	assert.Equal(t, "found dependency on blocked package rand", diags[0].Message)
	assert.Equal(t, []int{6, 7, 10}, []int{diags[0].Line, diags[1].Line, diags[2].Line})

	unrestricted := (&ManifestRule{}).CheckFile("c/Cargo.toml", manifest("other"))
	assert.Empty(t, unrestricted)
}

func TestBareSubstitution(t *testing.T) {
	t.Parallel()

	assert.True(t, bareSubstitution(`echo "$VAR"`))
	assert.True(t, bareSubstitution(`echo $1`))
	assert.True(t, bareSubstitution(`ls $HOME`))
	assert.True(t, bareSubstitution(`echo $_tmp`))

	assert.False(t, bareSubstitution(`echo "${VAR}"`))
	assert.False(t, bareSubstitution(`echo "$(date)"`))
	assert.False(t, bareSubstitution(`echo plain`))
	assert.False(t, bareSubstitution(`price ends in $`))

	// Special parameters and a bare dollar sign are not variable names.
	assert.False(t, bareSubstitution(`retval=$?`))
	assert.False(t, bareSubstitution(`echo $-`))
	assert.False(t, bareSubstitution(`price is $ 5`))
	assert.False(t, bareSubstitution(`echo "$!"`))
}
