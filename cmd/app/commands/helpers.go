// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/ticketoffice/internal/app"
	"github.com/allisson/ticketoffice/internal/config"
	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// WithTicketUseCase loads configuration, builds the DI container, and invokes
// fn with the initialized ticket use case. The container is shut down when fn
// returns.
func WithTicketUseCase(
	ctx context.Context,
	fn func(ctx context.Context, useCase ticketUseCase.UseCase, logger *slog.Logger) error,
) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	useCase, err := container.TicketUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize ticket use case: %w", err)
	}

	return fn(ctx, useCase, logger)
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// validateFormat checks that the output format is one of the supported values.
func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid output format: %s (valid options: text, json)", format)
	}
	return nil
}
