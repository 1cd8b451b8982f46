package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors(t *testing.T) {
	t.Run("thin content carries its reason", func(t *testing.T) {
		err := NewThinContentError("insufficient sections (1 < 2)")
		assert.True(t, IsThinContentError(err))
		assert.False(t, IsUnknownPlaybookError(err))
		assert.Equal(t, "insufficient sections (1 < 2)", SkipReason(err))
		assert.Equal(t, "THIN_CONTENT", err.Code)
	})

	t.Run("unknown playbook", func(t *testing.T) {
		err := NewUnknownPlaybookError("examples", "bypass-")
		assert.True(t, IsUnknownPlaybookError(err))
		assert.Empty(t, SkipReason(err))
		assert.Contains(t, err.Error(), "examples")
	})

	t.Run("wrapped errors keep their type", func(t *testing.T) {
		err := fmt.Errorf("generate: %w", NewThinContentError("insufficient faq (1 < 2)"))
		assert.True(t, IsThinContentError(err))

		wrapped := WrapError(err, "batch", ErrorTypeError)
		assert.True(t, IsThinContentError(wrapped))
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "x", ErrorTypeError))
	})

	t.Run("code of", func(t *testing.T) {
		assert.Equal(t, "NOT_FOUND", CodeOf(fmt.Errorf("lookup: %w", NewNotFoundError("no page", nil))))
		assert.Empty(t, CodeOf(fmt.Errorf("plain")))
	})
}
