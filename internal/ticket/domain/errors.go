package domain

import (
	"github.com/allisson/ticketoffice/internal/errors"
)

// Invitation ticket errors.
//
// The credential failure taxonomy is deliberately flat towards callers:
// ErrInvalidCredentials covers "no such ticket", "scope mismatch" and "wrong
// password" alike, so responses cannot be used as a ticket-existence oracle.
// Used and expired tickets get their own kinds because the guard logs them
// distinctly, but all three render as a plain forbidden response.
var (
	// ErrTicketNotFound indicates no ticket exists for the given identifier.
	ErrTicketNotFound = errors.Wrap(errors.ErrNotFound, "ticket not found")

	// ErrNoCredentials indicates the request presented no invitation at all,
	// neither a session reference nor raw credentials.
	ErrNoCredentials = errors.Wrap(errors.ErrUnauthorized, "no invitation credentials presented")

	// ErrInvalidCredentials indicates no ticket matches the presented
	// uuid/password/place/purpose combination.
	ErrInvalidCredentials = errors.Wrap(errors.ErrForbidden, "invitation matching credentials does not exist")

	// ErrTicketUsed indicates the ticket exists but has already been consumed.
	ErrTicketUsed = errors.Wrap(errors.ErrForbidden, "invitation has already been used")

	// ErrTicketExpired indicates the ticket exists but its deadline has passed.
	ErrTicketExpired = errors.Wrap(errors.ErrForbidden, "invitation expired")

	// ErrStaleSessionReference indicates the session holds a well-formed ticket
	// reference whose record no longer exists (e.g. removed by the expiry sweep).
	// Callers must treat this as re-authentication required, never a silent pass.
	ErrStaleSessionReference = errors.Wrap(errors.ErrForbidden, "session references a ticket that no longer exists")

	// ErrInvalidSessionReference indicates the session holds a malformed ticket
	// reference.
	ErrInvalidSessionReference = errors.Wrap(errors.ErrForbidden, "session holds a malformed ticket reference")
)
