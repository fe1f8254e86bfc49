package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	tests := []struct {
		name     string
		domains  []string
		domain   string
		expected bool
	}{
		{
			name:     "exact domain match",
			domains:  []string{"example.com"},
			domain:   "example.com",
			expected: true,
		},
		{
			name:     "case insensitive match",
			domains:  []string{"Example.COM"},
			domain:   "EXAMPLE.com",
			expected: true,
		},
		{
			name:     "domain not listed",
			domains:  []string{"example.com"},
			domain:   "other.com",
			expected: false,
		},
		{
			name:     "subdomain is not implied",
			domains:  []string{"example.com"},
			domain:   "mail.example.com",
			expected: false,
		},
		{
			name:     "empty whitelist",
			domains:  []string{},
			domain:   "example.com",
			expected: false,
		},
		{
			name:     "empty domain",
			domains:  []string{"example.com"},
			domain:   "",
			expected: false,
		},
		{
			name:     "whitespace in config is trimmed",
			domains:  []string{"  example.com  "},
			domain:   "example.com",
			expected: true,
		},
		{
			name:     "blank entries are dropped",
			domains:  []string{"", "  "},
			domain:   "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.domains, zap.NewNop())
			assert.Equal(t, tt.expected, checker.IsTrusted(tt.domain))
		})
	}
}
