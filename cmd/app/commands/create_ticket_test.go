package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
)

func newIssueOutput(expiresAt *time.Time) *ticketDomain.IssueTicketOutput {
	return &ticketDomain.IssueTicketOutput{
		Ticket: &ticketDomain.Ticket{
			ID:             uuid.New(),
			PasswordDigest: "digest",
			Place:          "party-hall",
			Purpose:        "entrance",
			CreatedAt:      time.Now().UTC(),
			ExpiresAt:      expiresAt,
		},
		ClearPassword: "N3jR7kP2mW9xT4hQ",
	}
}

func TestRunCreateTicket(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text-output", func(t *testing.T) {
		output := newIssueOutput(nil)
		mockUseCase := &mockTicketUseCase{}
		mockUseCase.On("Issue", ctx, mock.MatchedBy(func(input *ticketDomain.IssueTicketInput) bool {
			return input.Place == "party-hall" &&
				input.Purpose == "entrance" &&
				input.Payload == nil &&
				input.ExpiresAt == nil
		})).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateTicket(
			ctx, mockUseCase, logger,
			"party-hall", "entrance", "", 0, "text",
			IOTuple{Reader: &bytes.Buffer{}, Writer: &out},
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), output.Ticket.ID.String())
		require.Contains(t, out.String(), output.ClearPassword)
		require.Contains(t, out.String(), "Expires at: never")
		require.Contains(t, out.String(), "shown only once")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output-with-payload-and-expiration", func(t *testing.T) {
		deadline := time.Now().UTC().Add(72 * time.Hour)
		output := newIssueOutput(&deadline)
		mockUseCase := &mockTicketUseCase{}
		mockUseCase.On("Issue", ctx, mock.MatchedBy(func(input *ticketDomain.IssueTicketInput) bool {
			return input.Payload["user"] == "alice@example.com" && input.ExpiresAt != nil
		})).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateTicket(
			ctx, mockUseCase, logger,
			"party-hall", "entrance", `{"user": "alice@example.com"}`, 72*time.Hour, "json",
			IOTuple{Reader: &bytes.Buffer{}, Writer: &out},
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), `"ticket_id"`)
		require.Contains(t, out.String(), output.ClearPassword)
		require.Contains(t, out.String(), `"expires_at"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-payload-json", func(t *testing.T) {
		mockUseCase := &mockTicketUseCase{}

		err := RunCreateTicket(
			ctx, mockUseCase, logger,
			"party-hall", "entrance", "{not json", 0, "text",
			IOTuple{Reader: &bytes.Buffer{}, Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse payload JSON")
		mockUseCase.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("negative-expires-in", func(t *testing.T) {
		mockUseCase := &mockTicketUseCase{}

		err := RunCreateTicket(
			ctx, mockUseCase, logger,
			"party-hall", "entrance", "", -time.Hour, "text",
			IOTuple{Reader: &bytes.Buffer{}, Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "expires-in must not be negative")
	})

	t.Run("invalid-format", func(t *testing.T) {
		mockUseCase := &mockTicketUseCase{}

		err := RunCreateTicket(
			ctx, mockUseCase, logger,
			"party-hall", "entrance", "", 0, "yaml",
			IOTuple{Reader: &bytes.Buffer{}, Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid output format")
	})

	t.Run("usecase-error", func(t *testing.T) {
		mockUseCase := &mockTicketUseCase{}
		mockUseCase.On("Issue", ctx, mock.Anything).
			Return(nil, context.DeadlineExceeded)

		err := RunCreateTicket(
			ctx, mockUseCase, logger,
			"party-hall", "entrance", "", 0, "text",
			IOTuple{Reader: &bytes.Buffer{}, Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to issue ticket")
		mockUseCase.AssertExpectations(t)
	})
}
