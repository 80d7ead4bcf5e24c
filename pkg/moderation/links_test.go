package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountLinks(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{
			name:     "no links",
			content:  "just text, no urls here",
			expected: 0,
		},
		{
			name:     "single http link",
			content:  "see http://example.com for details",
			expected: 1,
		},
		{
			name:     "mixed schemes",
			content:  "http://a.example https://b.example ftp://c.example",
			expected: 3,
		},
		{
			name:     "case insensitive schemes",
			content:  "HTTP://a.example HtTpS://b.example FTP://c.example",
			expected: 3,
		},
		{
			name:     "scheme prefix without host still counts",
			content:  "broken https:// markup",
			expected: 1,
		},
		{
			name:     "unrelated scheme ignored",
			content:  "mailto:someone@example.com gopher://old.example",
			expected: 0,
		},
		{
			name:     "adjacent links",
			content:  "http://a.examplehttp://b.example",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountLinks(tt.content))
		})
	}
}
