package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

// RunCleanTickets deletes tickets whose expiration deadline has passed.
// Supports dry-run mode to preview deletion count and both text/JSON output formats.
// Tickets without a deadline are never touched.
//
// Requirements: Database must be migrated and accessible.
func RunCleanTickets(
	ctx context.Context,
	useCase ticketUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	asOf := time.Now().UTC()
	logger.Info("cleaning expired tickets",
		slog.Time("as_of", asOf),
		slog.Bool("dry_run", dryRun),
	)

	count, err := useCase.CleanupExpired(ctx, asOf, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired tickets: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCleanTicketsJSON(count, dryRun, writer)
	} else {
		outputCleanTicketsText(count, dryRun, writer)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanTicketsText outputs the result in human-readable text format.
func outputCleanTicketsText(count int64, dryRun bool, writer io.Writer) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired ticket(s)\n", count)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired ticket(s)\n", count)
	}
}

// outputCleanTicketsJSON outputs the result in JSON format for machine consumption.
func outputCleanTicketsJSON(count int64, dryRun bool, writer io.Writer) {
	result := map[string]interface{}{
		"count":   count,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
