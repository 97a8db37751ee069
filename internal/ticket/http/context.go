// Package http provides the invitation guard middleware, the usage stamp
// middleware and HTTP handlers for ticket administration.
package http

import (
	"context"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// ticketKey is a context key type for storing the resolved invitation ticket.
type ticketKey struct{}

// guestKey is a context key type for storing the guest identity.
type guestKey struct{}

// WithTicket stores a resolved invitation ticket in the context.
// This is called by the guard middleware after successful resolution.
func WithTicket(ctx context.Context, ticket *ticketDomain.Ticket) context.Context {
	return context.WithValue(ctx, ticketKey{}, ticket)
}

// GetTicket retrieves the resolved invitation ticket from the context.
// Returns (ticket, true) if present, or (nil, false) if the guard did not run.
func GetTicket(ctx context.Context) (*ticketDomain.Ticket, bool) {
	ticket, ok := ctx.Value(ticketKey{}).(*ticketDomain.Ticket)
	return ticket, ok
}

// WithGuest stores the guest identity in the context.
func WithGuest(ctx context.Context, guest *ticketDomain.Guest) context.Context {
	return context.WithValue(ctx, guestKey{}, guest)
}

// GetGuest retrieves the guest identity from the context.
// Returns (guest, true) if present, or (nil, false) if the guard did not run.
func GetGuest(ctx context.Context) (*ticketDomain.Guest, bool) {
	guest, ok := ctx.Value(guestKey{}).(*ticketDomain.Guest)
	return guest, ok
}
