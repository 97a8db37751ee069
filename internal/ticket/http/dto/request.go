// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/ticketoffice/internal/validation"
)

// CreateTicketRequest contains the parameters for issuing a new invitation ticket.
// The ticket password is always generated server-side and cannot be supplied.
type CreateTicketRequest struct {
	Place     string         `json:"place"`
	Purpose   string         `json:"purpose"`
	Payload   map[string]any `json:"payload"`
	ExpiresAt *time.Time     `json:"expires_at"`
}

// Validate checks if the create ticket request is valid.
func (r *CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Place,
			validation.Required,
			customValidation.NotBlank,
			customValidation.ScopeComponent,
		),
		validation.Field(&r.Purpose,
			validation.Required,
			customValidation.NotBlank,
			customValidation.ScopeComponent,
		),
		validation.Field(&r.ExpiresAt,
			validation.By(validateExpiresAt),
		),
	)
}

// validateExpiresAt rejects deadlines already in the past.
func validateExpiresAt(value interface{}) error {
	expiresAt, ok := value.(*time.Time)
	if !ok || expiresAt == nil {
		return nil
	}
	if expiresAt.Before(time.Now().UTC()) {
		return validation.NewError("validation_expires_at_past", "must be in the future")
	}
	return nil
}
