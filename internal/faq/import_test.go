package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name   string
		format string
		doc    string
	}{
		{"json list", "json", `[{"question":"Q1","answer":"A1","keywords":["k"]}]`},
		{"json object", "json", `{"faqs":[{"question":"Q1","answer":"A1","keywords":["k"]}]}`},
		{"yaml list", "yaml", "- question: Q1\n  answer: A1\n  keywords: [k]\n"},
		{"yaml object", "yaml", "faqs:\n  - question: Q1\n    answer: A1\n    keywords: [k]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseEntries([]byte(tt.doc), tt.format)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Q1", rows[0].Question)
			assert.Equal(t, "A1", rows[0].Answer)
			assert.Equal(t, []string{"k"}, rows[0].Keywords)
		})
	}
}

func TestParseEntriesErrors(t *testing.T) {
	_, err := ParseEntries([]byte("  "), "json")
	assert.ErrorIs(t, err, ErrInvalidFAQ)

	_, err = ParseEntries([]byte("{"), "json")
	assert.ErrorIs(t, err, ErrInvalidFAQ)

	_, err = ParseEntries([]byte("a: b"), "toml")
	assert.ErrorIs(t, err, ErrInvalidFAQ)

	_, err = FormatFromPath("faqs.csv")
	assert.ErrorIs(t, err, ErrInvalidFAQ)
}
