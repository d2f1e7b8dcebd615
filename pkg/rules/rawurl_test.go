package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidylint/tidy/pkg/diagnostic"
)

func TestCheckForRawURLsInDoc(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want int
	}{
		{"outer doc comment", "/// https://google.com", 1},
		{"inner doc comment", "//! https://google.com", 1},
		{"mid-line url", "/// Visit https://google.com for details", 1},
		{"angle brackets", "/// <https://google.com>", 0},
		{"markdown link", "/// [link](https://google.com)", 0},
		{"markdown reference", "/// [link]: https://google.com", 0},
		{"plain comment", "// https://google.com", 0},
		{"no comment", `let url = "https://google.com";`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			diags := CheckForRawURLsInDoc("test.rs", 3, []byte(tc.line))

			require.Len(t, diags, tc.want)

			for _, d := range diags {
				assert.Equal(t, diagnostic.KindRawURLInDoc, d.Kind)
				assert.Equal(t, RawURLMessage, d.Message)
				assert.Equal(t, 3, d.Line)
			}
		})
	}
}

func TestRawURLRule_SkipsGeneratedRust(t *testing.T) {
	t.Parallel()

	rule := &RawURLRule{}

	assert.True(t, rule.Applies("components/script/lib.rs", nil))
	assert.False(t, rule.Applies("components/style/properties.mako.rs", nil))
	assert.False(t, rule.Applies("README.md", nil))
}
