package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/ticketoffice/internal/metrics"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// ticketUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type ticketUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewTicketUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewTicketUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &ticketUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for ticket issuance operations.
func (t *ticketUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *ticketDomain.IssueTicketInput,
) (*ticketDomain.IssueTicketOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "ticket", "ticket_issue", status)
	t.metrics.RecordDuration(ctx, "ticket", "ticket_issue", time.Since(start), status)

	return output, err
}

// Authenticate records metrics for credential verification operations.
func (t *ticketUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	ticketID uuid.UUID,
	clearPassword, place, purpose string,
) (*ticketDomain.Ticket, error) {
	start := time.Now()
	ticket, err := t.next.Authenticate(ctx, ticketID, clearPassword, place, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "ticket", "ticket_authenticate", status)
	t.metrics.RecordDuration(ctx, "ticket", "ticket_authenticate", time.Since(start), status)

	return ticket, err
}

// Resolve records metrics for session resolution operations.
func (t *ticketUseCaseWithMetrics) Resolve(
	ctx context.Context,
	ticketID uuid.UUID,
	place, purpose string,
) (*ticketDomain.Ticket, error) {
	start := time.Now()
	ticket, err := t.next.Resolve(ctx, ticketID, place, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "ticket", "ticket_resolve", status)
	t.metrics.RecordDuration(ctx, "ticket", "ticket_resolve", time.Since(start), status)

	return ticket, err
}

// Get records metrics for ticket retrieval operations.
func (t *ticketUseCaseWithMetrics) Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error) {
	start := time.Now()
	ticket, err := t.next.Get(ctx, ticketID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "ticket", "ticket_get", status)
	t.metrics.RecordDuration(ctx, "ticket", "ticket_get", time.Since(start), status)

	return ticket, err
}

// Stamp records metrics for usage stamping operations.
func (t *ticketUseCaseWithMetrics) Stamp(ctx context.Context, ticketID uuid.UUID) error {
	start := time.Now()
	err := t.next.Stamp(ctx, ticketID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "ticket", "ticket_stamp", status)
	t.metrics.RecordDuration(ctx, "ticket", "ticket_stamp", time.Since(start), status)

	return err
}

// CleanupExpired records metrics for expiry sweep operations.
func (t *ticketUseCaseWithMetrics) CleanupExpired(
	ctx context.Context,
	asOf time.Time,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupExpired(ctx, asOf, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "ticket", "ticket_cleanup_expired", status)
	t.metrics.RecordDuration(ctx, "ticket", "ticket_cleanup_expired", time.Since(start), status)

	return count, err
}
