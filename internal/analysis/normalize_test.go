// internal/analysis/normalize_test.go

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "just some words",
			want: "just some words",
		},
		{
			name: "tags removed",
			in:   `<p>Hello <a href="https://example.com">world</a>!</p>`,
			want: "Hello world!",
		},
		{
			name: "adjacent blocks concatenated without separator",
			in:   "<p>one</p><p>two</p>",
			want: "onetwo",
		},
		{
			name: "whitespace between tags preserved",
			in:   "<b>one</b> <i>two</i>",
			want: "one two",
		},
		{
			name: "nested markup",
			in:   "<div><span>a<b>b</b></span>c</div>",
			want: "abc",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestStripHTMLMalformed(t *testing.T) {
	// Malformed markup must never panic or drop the surrounding text.
	assert.Equal(t, "before after", StripHTML("before <b>after"))
	assert.NotPanics(t, func() { StripHTML("<<<>>><p unclosed") })
}
