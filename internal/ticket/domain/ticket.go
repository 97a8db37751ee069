// Package domain defines the invitation ticket domain model and business logic.
//
// A ticket is a generic one-shot credential: it grants anonymous guest access to a
// single (place, purpose) scope, carries an opaque payload for the caller, and can
// be consumed exactly once.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
)

// Ticket is a single-use, scoped, time-bounded invitation credential.
type Ticket struct {
	ID             uuid.UUID      // Unique identifier, assigned at creation
	PasswordDigest string         //nolint:gosec // argon2id digest, never the clear password
	Place          string         // Where the ticket grants access
	Purpose        string         // What the ticket grants access to
	Payload        map[string]any // Arbitrary data attached at creation, read-only thereafter
	CreatedAt      time.Time
	ExpiresAt      *time.Time // nil means no deadline
	UsedAt         *time.Time // nil means unused; once set, never cleared
}

// Used reports whether the ticket has been consumed.
func (t *Ticket) Used() bool {
	return t.UsedAt != nil
}

// Expired reports whether the ticket's deadline has passed.
// Tickets without a deadline never expire.
func (t *Ticket) Expired() bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now().UTC())
}

// IsValid reports whether the ticket is neither used nor expired.
// Validity depends on nothing else: not the scope, not the payload.
func (t *Ticket) IsValid() bool {
	return !t.Used() && !t.Expired()
}

// MatchesScope reports whether the ticket was issued for the given place and purpose.
func (t *Ticket) MatchesScope(place, purpose string) bool {
	return t.Place == place && t.Purpose == purpose
}

// UserReference returns the optional "user" key from the ticket payload.
// Callers use it to recover the identity the invitation was addressed to.
func (t *Ticket) UserReference() (any, bool) {
	if t.Payload == nil {
		return nil, false
	}
	user, ok := t.Payload["user"]
	return user, ok
}

// ParseID normalizes a wire-format ticket identifier into a uuid.UUID.
// Both the 36-character dashed form and the 32-character undashed form are
// accepted and resolve to the same identifier. Anything else is rejected as
// ErrInvalidInput.
func ParseID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 32 && len(trimmed) != 36 {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ticket id must be 32 or 36 characters")
	}

	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ticket id is not a valid UUID")
	}
	return id, nil
}

// Guest is the anonymous principal constructed from a valid invitation.
// It carries the resolved ticket and, when the issuer attached one, a reference
// to the user the invitation was addressed to.
type Guest struct {
	Invitation *Ticket
	User       any // value of the ticket payload's "user" key, nil if absent
}

// NewGuest builds a guest identity from a resolved, valid ticket.
func NewGuest(ticket *Ticket) *Guest {
	guest := &Guest{Invitation: ticket}
	if user, ok := ticket.UserReference(); ok {
		guest.User = user
	}
	return guest
}

// Authenticated reports whether the guest holds a resolved invitation.
func (g *Guest) Authenticated() bool {
	return g.Invitation != nil
}

// IssueTicketInput contains the parameters for issuing a new invitation ticket.
// The ticket password is always generated and cannot be specified by the caller.
type IssueTicketInput struct {
	Place     string
	Purpose   string
	Payload   map[string]any
	ExpiresAt *time.Time // nil means the ticket never expires
}

// IssueTicketOutput carries the stored ticket and the clear password.
// The clear password is returned exactly once at issuance and is never
// persisted or retrievable again.
type IssueTicketOutput struct {
	Ticket        *Ticket
	ClearPassword string
}
