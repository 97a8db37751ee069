package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

// RunCreateTicket issues a new invitation ticket for a (place, purpose) scope.
// The generated password is printed exactly once and cannot be recovered
// afterwards. Outputs ticket ID and password in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTicket(
	ctx context.Context,
	useCase ticketUseCase.UseCase,
	logger *slog.Logger,
	place string,
	purpose string,
	payloadJSON string,
	expiresIn time.Duration,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if expiresIn < 0 {
		return fmt.Errorf("expires-in must not be negative, got: %s", expiresIn)
	}

	logger.Info("creating invitation ticket",
		slog.String("place", place),
		slog.String("purpose", purpose),
	)

	// Parse optional payload JSON
	var payload map[string]any
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return fmt.Errorf("failed to parse payload JSON: %w", err)
		}
	}

	// Resolve optional expiration deadline
	var expiresAt *time.Time
	if expiresIn > 0 {
		deadline := time.Now().UTC().Add(expiresIn)
		expiresAt = &deadline
	}

	input := &ticketDomain.IssueTicketInput{
		Place:     place,
		Purpose:   purpose,
		Payload:   payload,
		ExpiresAt: expiresAt,
	}

	output, err := useCase.Issue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to issue ticket: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputTicketJSON(output, io.Writer)
	} else {
		outputTicketText(output, io.Writer)
	}

	logger.Info("ticket created successfully",
		slog.String("ticket_id", output.Ticket.ID.String()),
		slog.String("place", place),
		slog.String("purpose", purpose),
	)

	return nil
}

// outputTicketText outputs the result in human-readable text format.
func outputTicketText(output *ticketDomain.IssueTicketOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nTicket created successfully!")
	_, _ = fmt.Fprintf(writer, "Ticket ID: %s\n", output.Ticket.ID.String())
	_, _ = fmt.Fprintf(writer, "Password: %s\n", output.ClearPassword)
	if output.Ticket.ExpiresAt != nil {
		_, _ = fmt.Fprintf(writer, "Expires at: %s\n", output.Ticket.ExpiresAt.Format(time.RFC3339))
	} else {
		_, _ = fmt.Fprintln(writer, "Expires at: never")
	}
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The password is shown only once. Store it securely.")
}

// outputTicketJSON outputs the result in JSON format for machine consumption.
func outputTicketJSON(output *ticketDomain.IssueTicketOutput, writer io.Writer) {
	result := map[string]any{
		"ticket_id": output.Ticket.ID.String(),
		"password":  output.ClearPassword,
	}
	if output.Ticket.ExpiresAt != nil {
		result["expires_at"] = output.Ticket.ExpiresAt.Format(time.RFC3339)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
