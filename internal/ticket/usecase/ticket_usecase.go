package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
	ticketService "github.com/allisson/ticketoffice/internal/ticket/service"
)

// ticketUseCase implements UseCase for managing invitation tickets.
type ticketUseCase struct {
	ticketRepo      TicketRepository
	passwordService ticketService.PasswordService
}

// Issue creates a new invitation ticket with a generated password.
//
// The clear password is returned exactly once; only the Argon2id digest is
// stored. The payload is attached verbatim and is read-only from then on.
func (t *ticketUseCase) Issue(
	ctx context.Context,
	input *ticketDomain.IssueTicketInput,
) (*ticketDomain.IssueTicketOutput, error) {
	clearPassword, digest, err := t.passwordService.GeneratePassword()
	if err != nil {
		return nil, err
	}

	ticket := &ticketDomain.Ticket{
		ID:             uuid.New(),
		PasswordDigest: digest,
		Place:          input.Place,
		Purpose:        input.Purpose,
		Payload:        input.Payload,
		CreatedAt:      time.Now().UTC(),
		ExpiresAt:      input.ExpiresAt,
		UsedAt:         nil,
	}

	if err := t.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	return &ticketDomain.IssueTicketOutput{
		Ticket:        ticket,
		ClearPassword: clearPassword,
	}, nil
}

// Authenticate validates a (uuid, password, place, purpose) credential tuple.
//
// Check order: scoped fetch, then password, then usage, then expiry. The
// password is verified before the usage/expiry state so that a used or expired
// ticket cannot be told apart from a nonexistent one by probing with wrong
// passwords.
//
// Security notes:
//   - Returns ErrInvalidCredentials for missing ticket, scope mismatch, and
//     wrong password alike, to prevent ticket enumeration.
//   - ErrTicketUsed and ErrTicketExpired stay distinct for the guard's logging;
//     the HTTP layer renders all three as the same forbidden response.
func (t *ticketUseCase) Authenticate(
	ctx context.Context,
	ticketID uuid.UUID,
	clearPassword, place, purpose string,
) (*ticketDomain.Ticket, error) {
	ticket, err := t.ticketRepo.GetByScope(ctx, ticketID, place, purpose)
	if err != nil {
		if errors.Is(err, ticketDomain.ErrTicketNotFound) {
			return nil, ticketDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !t.passwordService.ComparePassword(clearPassword, ticket.PasswordDigest) {
		return nil, ticketDomain.ErrInvalidCredentials
	}

	if ticket.Used() {
		return nil, ticketDomain.ErrTicketUsed
	}

	if ticket.Expired() {
		return nil, ticketDomain.ErrTicketExpired
	}

	return ticket, nil
}

// Resolve re-validates a ticket referenced by an established session.
//
// No password check: holding the session reference is the credential. The
// usage and expiry checks run again because the ticket can be consumed or
// expire between the redirect and the follow-up request. A missing record is
// a stale reference (e.g. deleted by the expiry sweep), which callers must
// treat as re-authentication required.
func (t *ticketUseCase) Resolve(
	ctx context.Context,
	ticketID uuid.UUID,
	place, purpose string,
) (*ticketDomain.Ticket, error) {
	ticket, err := t.ticketRepo.GetByScope(ctx, ticketID, place, purpose)
	if err != nil {
		if errors.Is(err, ticketDomain.ErrTicketNotFound) {
			return nil, ticketDomain.ErrStaleSessionReference
		}
		return nil, err
	}

	if ticket.Used() {
		return nil, ticketDomain.ErrTicketUsed
	}

	if ticket.Expired() {
		return nil, ticketDomain.ErrTicketExpired
	}

	return ticket, nil
}

// Get retrieves a ticket by ID for administrative inspection.
func (t *ticketUseCase) Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error) {
	return t.ticketRepo.Get(ctx, ticketID)
}

// Stamp permanently marks the ticket as used.
//
// The at-most-once guarantee lives in the repository's atomic conditional
// update; this method only supplies the timestamp.
func (t *ticketUseCase) Stamp(ctx context.Context, ticketID uuid.UUID) error {
	return t.ticketRepo.MarkUsed(ctx, ticketID, time.Now().UTC())
}

// CleanupExpired deletes (or, in dry-run mode, counts) tickets whose deadline
// passed before asOf. Tickets without a deadline are never swept.
func (t *ticketUseCase) CleanupExpired(ctx context.Context, asOf time.Time, dryRun bool) (int64, error) {
	if dryRun {
		return t.ticketRepo.CountExpired(ctx, asOf)
	}
	return t.ticketRepo.DeleteExpired(ctx, asOf)
}

// NewTicketUseCase creates a new UseCase with the provided dependencies.
func NewTicketUseCase(
	ticketRepo TicketRepository,
	passwordService ticketService.PasswordService,
) UseCase {
	return &ticketUseCase{
		ticketRepo:      ticketRepo,
		passwordService: passwordService,
	}
}
