package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// mockUseCase is a mock implementation of UseCase for decorator testing.
type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Issue(
	ctx context.Context,
	input *ticketDomain.IssueTicketInput,
) (*ticketDomain.IssueTicketOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.IssueTicketOutput), args.Error(1)
}

func (m *mockUseCase) Authenticate(
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

func (m *mockUseCase) Resolve(
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

func (m *mockUseCase) Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.Ticket), args.Error(1)
}

func (m *mockUseCase) Stamp(ctx context.Context, ticketID uuid.UUID) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

func (m *mockUseCase) CleanupExpired(ctx context.Context, asOf time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, asOf, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func TestTicketUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	t.Run("Authenticate success", func(t *testing.T) {
		mockNext := &mockUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewTicketUseCaseWithMetrics(mockNext, mockMetrics)

		ticket := &ticketDomain.Ticket{ID: ticketID}
		mockNext.On("Authenticate", ctx, ticketID, "secret", "louvre", "visit").Return(ticket, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "ticket", "ticket_authenticate", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "ticket", "ticket_authenticate", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Authenticate(ctx, ticketID, "secret", "louvre", "visit")
		assert.NoError(t, err)
		assert.Equal(t, ticket, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Authenticate error", func(t *testing.T) {
		mockNext := &mockUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewTicketUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Authenticate", ctx, ticketID, "secret", "louvre", "visit").
			Return(nil, ticketDomain.ErrInvalidCredentials).
			Once()
		mockMetrics.On("RecordOperation", ctx, "ticket", "ticket_authenticate", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "ticket", "ticket_authenticate", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		_, err := uc.Authenticate(ctx, ticketID, "secret", "louvre", "visit")
		assert.ErrorIs(t, err, ticketDomain.ErrInvalidCredentials)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Issue success", func(t *testing.T) {
		mockNext := &mockUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewTicketUseCaseWithMetrics(mockNext, mockMetrics)

		input := &ticketDomain.IssueTicketInput{Place: "louvre", Purpose: "visit"}
		output := &ticketDomain.IssueTicketOutput{ClearPassword: "clear"}
		mockNext.On("Issue", ctx, input).Return(output, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "ticket", "ticket_issue", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "ticket", "ticket_issue", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Issue(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Stamp error", func(t *testing.T) {
		mockNext := &mockUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewTicketUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Stamp", ctx, ticketID).Return(apperrors.New("boom")).Once()
		mockMetrics.On("RecordOperation", ctx, "ticket", "ticket_stamp", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "ticket", "ticket_stamp", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		assert.Error(t, uc.Stamp(ctx, ticketID))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("CleanupExpired success", func(t *testing.T) {
		mockNext := &mockUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewTicketUseCaseWithMetrics(mockNext, mockMetrics)

		asOf := time.Now().UTC()
		mockNext.On("CleanupExpired", ctx, asOf, false).Return(int64(3), nil).Once()
		mockMetrics.On("RecordOperation", ctx, "ticket", "ticket_cleanup_expired", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "ticket", "ticket_cleanup_expired", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		count, err := uc.CleanupExpired(ctx, asOf, false)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		mockMetrics.AssertExpectations(t)
	})
}
