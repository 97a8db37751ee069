package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

// mockTicketRepository is a mock implementation of TicketRepository for testing.
type mockTicketRepository struct {
	mock.Mock
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *ticketDomain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTicketRepository) Get(ctx context.Context, ticketID uuid.UUID) (*ticketDomain.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketDomain.Ticket), args.Error(1)
}

func (m *mockTicketRepository) GetByScope(
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

func (m *mockTicketRepository) MarkUsed(ctx context.Context, ticketID uuid.UUID, usedAt time.Time) error {
	args := m.Called(ctx, ticketID, usedAt)
	return args.Error(0)
}

func (m *mockTicketRepository) DeleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketRepository) CountExpired(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// mockPasswordService is a mock implementation of PasswordService for testing.
type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) GeneratePassword() (clearPassword string, digest string, error error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockPasswordService) HashPassword(clearPassword string) (digest string, error error) {
	args := m.Called(clearPassword)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) ComparePassword(clearPassword string, digest string) bool {
	args := m.Called(clearPassword, digest)
	return args.Bool(0)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestTicketUseCase_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_GeneratesPasswordAndPersistsTicket", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		expiresAt := timePtr(time.Now().UTC().Add(48 * time.Hour))
		input := &ticketDomain.IssueTicketInput{
			Place:     "louvre",
			Purpose:   "visit",
			Payload:   map[string]any{"user": "alice"},
			ExpiresAt: expiresAt,
		}

		mockPassword.On("GeneratePassword").Return("clear-password", "argon2id-digest", nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(ticket *ticketDomain.Ticket) bool {
			return ticket.ID != uuid.Nil &&
				ticket.PasswordDigest == "argon2id-digest" &&
				ticket.Place == "louvre" &&
				ticket.Purpose == "visit" &&
				ticket.ExpiresAt == expiresAt &&
				ticket.UsedAt == nil
		})).Return(nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		output, err := useCase.Issue(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "clear-password", output.ClearPassword)
		assert.Equal(t, "argon2id-digest", output.Ticket.PasswordDigest)
		assert.Equal(t, map[string]any{"user": "alice"}, output.Ticket.Payload)
		assert.False(t, output.Ticket.Used())
		mockRepo.AssertExpectations(t)
		mockPassword.AssertExpectations(t)
	})

	t.Run("Error_PasswordGenerationFails", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockPassword.On("GeneratePassword").Return("", "", apperrors.New("entropy exhausted"))

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Issue(ctx, &ticketDomain.IssueTicketInput{Place: "louvre", Purpose: "visit"})

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Error_RepositoryCreateFails", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockPassword.On("GeneratePassword").Return("clear-password", "digest", nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(apperrors.New("connection refused"))

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Issue(ctx, &ticketDomain.IssueTicketInput{Place: "louvre", Purpose: "visit"})

		assert.Error(t, err)
	})
}

func TestTicketUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	validTicket := func() *ticketDomain.Ticket {
		return &ticketDomain.Ticket{
			ID:             ticketID,
			PasswordDigest: "stored-digest",
			Place:          "louvre",
			Purpose:        "visit",
			CreatedAt:      time.Now().UTC(),
			ExpiresAt:      timePtr(time.Now().UTC().Add(time.Hour)),
		}
	}

	t.Run("Success_ValidCredentials", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := validTicket()
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)
		mockPassword.On("ComparePassword", "secret", "stored-digest").Return(true)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		got, err := useCase.Authenticate(ctx, ticketID, "secret", "louvre", "visit")

		require.NoError(t, err)
		assert.Equal(t, ticket, got)
	})

	t.Run("Error_TicketNotFound", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").
			Return(nil, ticketDomain.ErrTicketNotFound)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Authenticate(ctx, ticketID, "secret", "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrInvalidCredentials)
		mockPassword.AssertNotCalled(t, "ComparePassword")
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(validTicket(), nil)
		mockPassword.On("ComparePassword", "wrong", "stored-digest").Return(false)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Authenticate(ctx, ticketID, "wrong", "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrInvalidCredentials)
	})

	t.Run("Error_TicketUsed", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := validTicket()
		ticket.UsedAt = timePtr(time.Now().UTC().Add(-time.Minute))
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)
		mockPassword.On("ComparePassword", "secret", "stored-digest").Return(true)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Authenticate(ctx, ticketID, "secret", "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrTicketUsed)
	})

	t.Run("Error_TicketExpired", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := validTicket()
		ticket.ExpiresAt = timePtr(time.Now().UTC().Add(-time.Minute))
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)
		mockPassword.On("ComparePassword", "secret", "stored-digest").Return(true)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Authenticate(ctx, ticketID, "secret", "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrTicketExpired)
	})

	t.Run("PasswordCheckedBeforeUsageState", func(t *testing.T) {
		// A used ticket probed with a wrong password must look exactly like a
		// nonexistent ticket, not reveal that it was used.
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := validTicket()
		ticket.UsedAt = timePtr(time.Now().UTC())
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)
		mockPassword.On("ComparePassword", "wrong", "stored-digest").Return(false)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Authenticate(ctx, ticketID, "wrong", "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ticketDomain.ErrTicketUsed)
	})
}

func TestTicketUseCase_Resolve(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	t.Run("Success_NoPasswordRequired", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := &ticketDomain.Ticket{ID: ticketID, Place: "louvre", Purpose: "visit"}
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		got, err := useCase.Resolve(ctx, ticketID, "louvre", "visit")

		require.NoError(t, err)
		assert.Equal(t, ticket, got)
		mockPassword.AssertNotCalled(t, "ComparePassword")
	})

	t.Run("Error_StaleReference", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").
			Return(nil, ticketDomain.ErrTicketNotFound)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Resolve(ctx, ticketID, "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrStaleSessionReference)
	})

	t.Run("Error_UsedBetweenRequests", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := &ticketDomain.Ticket{
			ID:      ticketID,
			Place:   "louvre",
			Purpose: "visit",
			UsedAt:  timePtr(time.Now().UTC()),
		}
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Resolve(ctx, ticketID, "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrTicketUsed)
	})

	t.Run("Error_ExpiredBetweenRequests", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		ticket := &ticketDomain.Ticket{
			ID:        ticketID,
			Place:     "louvre",
			Purpose:   "visit",
			ExpiresAt: timePtr(time.Now().UTC().Add(-time.Second)),
		}
		mockRepo.On("GetByScope", ctx, ticketID, "louvre", "visit").Return(ticket, nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		_, err := useCase.Resolve(ctx, ticketID, "louvre", "visit")

		assert.ErrorIs(t, err, ticketDomain.ErrTicketExpired)
	})
}

func TestTicketUseCase_Stamp(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	t.Run("Success_DelegatesToAtomicMarkUsed", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("MarkUsed", ctx, ticketID, mock.AnythingOfType("time.Time")).Return(nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		assert.NoError(t, useCase.Stamp(ctx, ticketID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_AlreadyUsed", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("MarkUsed", ctx, ticketID, mock.AnythingOfType("time.Time")).
			Return(ticketDomain.ErrTicketUsed)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		assert.ErrorIs(t, useCase.Stamp(ctx, ticketID), ticketDomain.ErrTicketUsed)
	})
}

func TestTicketUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	asOf := time.Now().UTC()

	t.Run("DryRun_CountsOnly", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("CountExpired", ctx, asOf).Return(int64(10), nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		count, err := useCase.CleanupExpired(ctx, asOf, true)

		require.NoError(t, err)
		assert.Equal(t, int64(10), count)
		mockRepo.AssertNotCalled(t, "DeleteExpired")
	})

	t.Run("Deletes_WhenNotDryRun", func(t *testing.T) {
		mockRepo := &mockTicketRepository{}
		mockPassword := &mockPasswordService{}

		mockRepo.On("DeleteExpired", ctx, asOf).Return(int64(10), nil)

		useCase := NewTicketUseCase(mockRepo, mockPassword)
		count, err := useCase.CleanupExpired(ctx, asOf, false)

		require.NoError(t, err)
		assert.Equal(t, int64(10), count)
		mockRepo.AssertNotCalled(t, "CountExpired")
	})
}
