// Package repository implements data persistence for invitation tickets.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
// The ticket payload is stored as a JSON column in both.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/ticketoffice/internal/database"
	apperrors "github.com/allisson/ticketoffice/internal/errors"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// PostgreSQLTicketRepository implements Ticket persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTicketRepository struct {
	db *sql.DB
}

// Create inserts a new Ticket into the PostgreSQL database.
func (p *PostgreSQLTicketRepository) Create(ctx context.Context, ticket *ticketDomain.Ticket) error {
	querier := database.GetTx(ctx, p.db)

	payload, err := marshalPayload(ticket.Payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO tickets (id, password_digest, place, purpose, payload, created_at, expires_at, used_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		ticket.ID,
		ticket.PasswordDigest,
		ticket.Place,
		ticket.Purpose,
		payload,
		ticket.CreatedAt,
		ticket.ExpiresAt,
		ticket.UsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ticket")
	}
	return nil
}

// Get retrieves a Ticket by ID from the PostgreSQL database.
// Returns ErrTicketNotFound if the ticket doesn't exist.
func (p *PostgreSQLTicketRepository) Get(
	ctx context.Context,
	ticketID uuid.UUID,
) (*ticketDomain.Ticket, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, password_digest, place, purpose, payload, created_at, expires_at, used_at
			  FROM tickets WHERE id = $1`

	return p.scanTicket(querier.QueryRowContext(ctx, query, ticketID))
}

// GetByScope retrieves a Ticket by ID constrained to a (place, purpose) pair.
// An existing ID with a different scope returns ErrTicketNotFound, so callers
// can't probe which scope a ticket belongs to.
func (p *PostgreSQLTicketRepository) GetByScope(
	ctx context.Context,
	ticketID uuid.UUID,
	place, purpose string,
) (*ticketDomain.Ticket, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, password_digest, place, purpose, payload, created_at, expires_at, used_at
			  FROM tickets WHERE id = $1 AND place = $2 AND purpose = $3`

	return p.scanTicket(querier.QueryRowContext(ctx, query, ticketID, place, purpose))
}

// MarkUsed stamps a ticket as consumed with a single conditional UPDATE.
// The `used_at IS NULL` predicate makes the check-and-set indivisible: among
// concurrent callers exactly one update matches, the rest fall through to the
// disambiguating Get and observe ErrTicketUsed.
func (p *PostgreSQLTicketRepository) MarkUsed(
	ctx context.Context,
	ticketID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tickets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`

	result, err := querier.ExecContext(ctx, query, usedAt, ticketID)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark ticket used")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected > 0 {
		return nil
	}

	// No row matched: either the ticket is already used or it doesn't exist.
	if _, err := p.Get(ctx, ticketID); err != nil {
		return err
	}
	return ticketDomain.ErrTicketUsed
}

// DeleteExpired removes all tickets whose deadline is before asOf.
// Tickets without a deadline are never deleted.
func (p *PostgreSQLTicketRepository) DeleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tickets WHERE expires_at IS NOT NULL AND expires_at < $1`

	result, err := querier.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tickets")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// CountExpired counts tickets whose deadline is before asOf.
func (p *PostgreSQLTicketRepository) CountExpired(ctx context.Context, asOf time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM tickets WHERE expires_at IS NOT NULL AND expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, asOf).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tickets")
	}
	return count, nil
}

// scanTicket maps a single row into a Ticket, unmarshaling the payload column.
func (p *PostgreSQLTicketRepository) scanTicket(row *sql.Row) (*ticketDomain.Ticket, error) {
	var ticket ticketDomain.Ticket
	var payload []byte

	err := row.Scan(
		&ticket.ID,
		&ticket.PasswordDigest,
		&ticket.Place,
		&ticket.Purpose,
		&payload,
		&ticket.CreatedAt,
		&ticket.ExpiresAt,
		&ticket.UsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticketDomain.ErrTicketNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get ticket")
	}

	if err := unmarshalPayload(payload, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// marshalPayload serializes the ticket payload for the JSON column.
// A nil payload is stored as an empty JSON object.
func marshalPayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal ticket payload")
	}
	return data, nil
}

// unmarshalPayload deserializes the JSON payload column into the ticket.
func unmarshalPayload(data []byte, ticket *ticketDomain.Ticket) error {
	if len(data) == 0 {
		ticket.Payload = map[string]any{}
		return nil
	}
	if err := json.Unmarshal(data, &ticket.Payload); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal ticket payload")
	}
	return nil
}

// NewPostgreSQLTicketRepository creates a new PostgreSQL Ticket repository.
func NewPostgreSQLTicketRepository(db *sql.DB) *PostgreSQLTicketRepository {
	return &PostgreSQLTicketRepository{db: db}
}
