package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name     string
		s1       string
		s2       string
		expected int
	}{
		{"identical strings", "paypal", "paypal", 0},
		{"single substitution", "test", "best", 1},
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"empty against word", "", "apple", 5},
		{"both empty", "", "", 0},
		{"insertion", "goggle", "google", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.s1, tt.s2))
			assert.Equal(t, tt.expected, Levenshtein(tt.s2, tt.s1), "distance is symmetric")
		})
	}
}
