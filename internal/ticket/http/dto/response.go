// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// CreateTicketResponse contains the result of issuing a new invitation ticket.
// SECURITY: The password is only returned once and must be delivered to the
// guest securely; it is not stored or retrievable afterwards.
type CreateTicketResponse struct {
	ID        string         `json:"id"`
	Password  string         `json:"password"`
	Place     string         `json:"place"`
	Purpose   string         `json:"purpose"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// TicketResponse represents a ticket in API responses (excludes secret material).
type TicketResponse struct {
	ID        string         `json:"id"`
	Place     string         `json:"place"`
	Purpose   string         `json:"purpose"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	UsedAt    *time.Time     `json:"used_at,omitempty"`
}

// MapTicketToResponse converts a domain ticket to an API response.
func MapTicketToResponse(ticket *ticketDomain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        ticket.ID.String(),
		Place:     ticket.Place,
		Purpose:   ticket.Purpose,
		Payload:   ticket.Payload,
		CreatedAt: ticket.CreatedAt,
		ExpiresAt: ticket.ExpiresAt,
		UsedAt:    ticket.UsedAt,
	}
}

// MapIssueOutputToResponse converts an issuance result to an API response.
func MapIssueOutputToResponse(output *ticketDomain.IssueTicketOutput) CreateTicketResponse {
	return CreateTicketResponse{
		ID:        output.Ticket.ID.String(),
		Password:  output.ClearPassword,
		Place:     output.Ticket.Place,
		Purpose:   output.Ticket.Purpose,
		Payload:   output.Ticket.Payload,
		CreatedAt: output.Ticket.CreatedAt,
		ExpiresAt: output.Ticket.ExpiresAt,
	}
}
