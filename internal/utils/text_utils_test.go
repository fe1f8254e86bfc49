package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("short text is unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", tp.TruncateText("hello", 10))
	})

	t.Run("long text is cut to the byte bound", func(t *testing.T) {
		out := tp.TruncateText(strings.Repeat("a", 100), 10)
		assert.Len(t, out, 10)
	})

	t.Run("multibyte rune is never split", func(t *testing.T) {
		// "héllo" holds a two-byte rune at index 1
		out := tp.TruncateText("héllo", 2)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, "h", out)
	})

	t.Run("non-positive bound disables truncation", func(t *testing.T) {
		assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	})
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("valid text is unchanged", func(t *testing.T) {
		assert.Equal(t, "héllo wörld", tp.SanitizeUTF8("héllo wörld"))
	})

	t.Run("invalid bytes are dropped", func(t *testing.T) {
		out := tp.SanitizeUTF8("ok\xffstill ok")
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, "okstill ok", out)
	})
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	out := tp.ProcessText("hello "+strings.Repeat("x", 100), 8)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "hello xx", out)
}
