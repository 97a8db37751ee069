package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/ticketoffice/internal/database"
	apperrors "github.com/allisson/ticketoffice/internal/errors"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// MySQLTicketRepository implements Ticket persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLTicketRepository struct {
	db *sql.DB
}

// Create inserts a new Ticket into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLTicketRepository) Create(ctx context.Context, ticket *ticketDomain.Ticket) error {
	querier := database.GetTx(ctx, m.db)

	id, err := ticket.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal ticket id")
	}

	payload, err := marshalPayload(ticket.Payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO tickets (id, password_digest, place, purpose, payload, created_at, expires_at, used_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Get retrieves a Ticket by ID from the MySQL database.
// Returns ErrTicketNotFound if the ticket doesn't exist.
func (m *MySQLTicketRepository) Get(
	ctx context.Context,
	ticketID uuid.UUID,
) (*ticketDomain.Ticket, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := ticketID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal ticket id")
	}

	query := `SELECT id, password_digest, place, purpose, payload, created_at, expires_at, used_at
			  FROM tickets WHERE id = ?`

	return m.scanTicket(querier.QueryRowContext(ctx, query, id))
}

// GetByScope retrieves a Ticket by ID constrained to a (place, purpose) pair.
// An existing ID with a different scope returns ErrTicketNotFound.
func (m *MySQLTicketRepository) GetByScope(
	ctx context.Context,
	ticketID uuid.UUID,
	place, purpose string,
) (*ticketDomain.Ticket, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := ticketID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal ticket id")
	}

	query := `SELECT id, password_digest, place, purpose, payload, created_at, expires_at, used_at
			  FROM tickets WHERE id = ? AND place = ? AND purpose = ?`

	return m.scanTicket(querier.QueryRowContext(ctx, query, id, place, purpose))
}

// MarkUsed stamps a ticket as consumed with a single conditional UPDATE.
// The `used_at IS NULL` predicate makes the check-and-set indivisible.
func (m *MySQLTicketRepository) MarkUsed(
	ctx context.Context,
	ticketID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := ticketID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal ticket id")
	}

	query := `UPDATE tickets SET used_at = ? WHERE id = ? AND used_at IS NULL`

	result, err := querier.ExecContext(ctx, query, usedAt, id)
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

	if _, err := m.Get(ctx, ticketID); err != nil {
		return err
	}
	return ticketDomain.ErrTicketUsed
}

// DeleteExpired removes all tickets whose deadline is before asOf.
func (m *MySQLTicketRepository) DeleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tickets WHERE expires_at IS NOT NULL AND expires_at < ?`

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
func (m *MySQLTicketRepository) CountExpired(ctx context.Context, asOf time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM tickets WHERE expires_at IS NOT NULL AND expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, asOf).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tickets")
	}
	return count, nil
}

// scanTicket maps a single row into a Ticket, decoding the BINARY(16) id and
// unmarshaling the payload column.
func (m *MySQLTicketRepository) scanTicket(row *sql.Row) (*ticketDomain.Ticket, error) {
	var ticket ticketDomain.Ticket
	var idBytes []byte
	var payload []byte

	err := row.Scan(
		&idBytes,
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

	if err := ticket.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal ticket id")
	}

	if err := unmarshalPayload(payload, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// NewMySQLTicketRepository creates a new MySQL Ticket repository.
func NewMySQLTicketRepository(db *sql.DB) *MySQLTicketRepository {
	return &MySQLTicketRepository{db: db}
}
