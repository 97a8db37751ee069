package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// mockTicketUseCase is a mock implementation of the ticket use case for testing.
type mockTicketUseCase struct {
	mock.Mock
}

func (m *mockTicketUseCase) Issue(
	ctx context.Context,
	input *ticketDomain.IssueTicketInput,
) (*ticketDomain.IssueTicketOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.IssueTicketOutput), args.Error(1)
}

func (m *mockTicketUseCase) Authenticate(
	ctx context.Context,
	ticketID uuid.UUID,
	clearPassword, place, purpose string,
) (*ticketDomain.Ticket, error) {
	args := m.Called(ctx, ticketID, clearPassword, place, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.Ticket), args.Error(1)
}

func (m *mockTicketUseCase) Resolve(
	ctx context.Context,
	ticketID uuid.UUID,
	place, purpose string,
) (*ticketDomain.Ticket, error) {
	args := m.Called(ctx, ticketID, place, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.Ticket), args.Error(1)
}

func (m *mockTicketUseCase) Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.Ticket), args.Error(1)
}

func (m *mockTicketUseCase) Stamp(ctx context.Context, ticketID uuid.UUID) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

func (m *mockTicketUseCase) CleanupExpired(ctx context.Context, asOf time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, asOf, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
