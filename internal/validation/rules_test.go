package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("Wraps as ErrInvalidInput", func(t *testing.T) {
		err := WrapValidationError(apperrors.New("place: must not be blank"))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Nil passes through", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Non-empty string", "louvre", false},
		{"Empty string", "", true},
		{"Whitespace only", "   ", true},
		{"Leading whitespace", "  visit", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScopeComponent(t *testing.T) {
	assert.NoError(t, ScopeComponent.Validate("louvre"))
	assert.Error(t, ScopeComponent.Validate(strings.Repeat("x", 51)))
}
