// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// ScopeComponent validates a ticket place or purpose value. Scope values are
// short identifiers, kept within the column width of the tickets table.
var ScopeComponent = validation.NewStringRuleWithError(
	func(s string) bool {
		return len(s) <= 50
	},
	validation.NewError("validation_scope_component", "must be at most 50 characters"),
)
