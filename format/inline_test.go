package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInline_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		inline   Inline
		text     string
		expected string
	}{
		{
			name:     "no markers",
			inline:   HTMLInline,
			text:     "plain text with a * lone star",
			expected: "plain text with a * lone star",
		},
		{
			name:     "bold",
			inline:   HTMLInline,
			text:     "**Revenue:** $5M",
			expected: "<strong>Revenue:</strong> $5M",
		},
		{
			name:     "italic",
			inline:   HTMLInline,
			text:     "an *estimate*",
			expected: "an <em>estimate</em>",
		},
		{
			name:     "code",
			inline:   HTMLInline,
			text:     "run `revkit prospect`",
			expected: "run <code>revkit prospect</code>",
		},
		{
			name:     "bold before italic",
			inline:   HTMLInline,
			text:     "**big** and *small*",
			expected: "<strong>big</strong> and <em>small</em>",
		},
		{
			name:     "several of each",
			inline:   HTMLInline,
			text:     "**a** **b** `c` `d`",
			expected: "<strong>a</strong> <strong>b</strong> <code>c</code> <code>d</code>",
		},
		{
			name:     "empty backticks left alone",
			inline:   HTMLInline,
			text:     "``",
			expected: "``",
		},
		{
			name:     "plain strips markers",
			inline:   PlainInline,
			text:     "**HQ:** *Austin* `TX`",
			expected: "HQ: Austin TX",
		},
		{
			name:     "raw keeps markers",
			inline:   RawInline,
			text:     "**HQ:** <Austin> & `TX`",
			expected: "**HQ:** <Austin> & `TX`",
		},
		{
			name:     "escaped text keeps markers",
			inline:   HTMLInline,
			text:     "**R&amp;D** &lt;est&gt;",
			expected: "<strong>R&amp;D</strong> &lt;est&gt;",
		},
		{
			name:     "nil pass skipped",
			inline:   Inline{Code: func(s string) string { return "[" + s + "]" }},
			text:     "**keep** `x`",
			expected: "**keep** [x]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inline.Resolve(tt.text))
		})
	}
}
