package dircheck

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidylint/tidy/pkg/diagnostic"
)

func collect(t *testing.T, entries []Entry) []diagnostic.Diagnostic {
	t.Helper()

	var out []diagnostic.Diagnostic
	for d := range CheckDirectoryFiles(entries) {
		out = append(out, d)
	}

	return out
}

func TestCheckDirectoryFiles_UnexpectedExtensions(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Directory: filepath.Join("testdata", "dir_check", "webidl_plus"), Extensions: []string{"webidl", "test"}},
		{Directory: filepath.Join("testdata", "dir_check", "only_webidl"), Extensions: []string{"webidl"}},
	}

	diags := collect(t, entries)

	require.Len(t, diags, 2)

	assert.Equal(t, filepath.Join("testdata", "dir_check", "webidl_plus", "test.rs"), diags[0].Path)
	assert.Equal(t,
		"Unexpected extension found for test.rs. We only expect files with webidl, test extensions in "+
			filepath.Join("testdata", "dir_check", "webidl_plus"),
		diags[0].Message)

	assert.Equal(t, filepath.Join("testdata", "dir_check", "webidl_plus", "test2.rs"), diags[1].Path)
	assert.Equal(t, diagnostic.KindUnexpectedExt, diags[1].Kind)
}

func TestCheckDirectoryFiles_AllAllowed(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Directory: filepath.Join("testdata", "dir_check", "only_webidl"), Extensions: []string{"webidl"}},
	}

	assert.Empty(t, collect(t, entries))
}

func TestCheckDirectoryFiles_MissingDirectory(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Directory: filepath.Join("testdata", "dir_check", "gone"), Extensions: []string{"webidl"}},
	}

	diags := collect(t, entries)

	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.KindUnreadable, diags[0].Kind)
}
