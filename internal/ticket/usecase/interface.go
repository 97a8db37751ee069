// Package usecase implements business logic orchestration for invitation tickets.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// TicketRepository defines persistence operations for invitation tickets.
type TicketRepository interface {
	// Create inserts a new ticket.
	Create(ctx context.Context, ticket *ticketDomain.Ticket) error

	// Get retrieves a ticket by ID. Returns ErrTicketNotFound if absent.
	Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error)

	// GetByScope retrieves a ticket by ID scoped to a (place, purpose) pair.
	// An existing ID with a mismatching scope is indistinguishable from an
	// absent ID: both return ErrTicketNotFound.
	GetByScope(ctx context.Context, ticketID uuid.UUID, place, purpose string) (*ticketDomain.Ticket, error)

	// MarkUsed stamps the ticket as consumed. The update must be a single
	// atomic conditional write: among concurrent callers exactly one succeeds,
	// the rest observe ErrTicketUsed. Returns ErrTicketNotFound if the ticket
	// does not exist.
	MarkUsed(ctx context.Context, ticketID uuid.UUID, usedAt time.Time) error

	// DeleteExpired removes all tickets whose deadline is before asOf.
	// Returns the number of deleted tickets.
	DeleteExpired(ctx context.Context, asOf time.Time) (int64, error)

	// CountExpired counts tickets whose deadline is before asOf without
	// deleting them. Supports dry-run maintenance.
	CountExpired(ctx context.Context, asOf time.Time) (int64, error)
}

// UseCase defines the invitation ticket business operations.
type UseCase interface {
	// Issue creates a ticket with a generated password for a (place, purpose)
	// scope. The clear password appears only in the returned output.
	Issue(ctx context.Context, input *ticketDomain.IssueTicketInput) (*ticketDomain.IssueTicketOutput, error)

	// Authenticate validates request-supplied credentials against the store.
	// Returns ErrInvalidCredentials, ErrTicketUsed, or ErrTicketExpired on
	// failure; the matching ticket on success.
	Authenticate(
		ctx context.Context,
		ticketID uuid.UUID,
		clearPassword, place, purpose string,
	) (*ticketDomain.Ticket, error)

	// Resolve re-validates a ticket referenced by an established guest session.
	// Returns ErrStaleSessionReference when the record is gone, and re-applies
	// the used/expired checks since validity can change between requests.
	Resolve(ctx context.Context, ticketID uuid.UUID, place, purpose string) (*ticketDomain.Ticket, error)

	// Get retrieves a ticket by ID for administrative inspection.
	Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error)

	// Stamp permanently marks the ticket as used. At most one Stamp call per
	// ticket ever succeeds.
	Stamp(ctx context.Context, ticketID uuid.UUID) error

	// CleanupExpired deletes tickets whose deadline passed before asOf, or
	// only counts them when dryRun is set. Returns the affected count.
	CleanupExpired(ctx context.Context, asOf time.Time, dryRun bool) (int64, error)
}
