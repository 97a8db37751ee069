// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/ticketoffice/cmd/app/commands"
	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Single-use invitation ticket service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-ticket",
				Usage: "Issue a new invitation ticket with a generated password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "place",
						Aliases:  []string{"l"},
						Required: true,
						Usage:    "Where the ticket grants access (e.g., party-hall)",
					},
					&cli.StringFlag{
						Name:     "purpose",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "What the ticket grants access to (e.g., entrance)",
					},
					&cli.StringFlag{
						Name:    "payload",
						Aliases: []string{"d"},
						Usage:   "JSON object attached to the ticket (e.g., '{\"user\": \"alice\"}')",
					},
					&cli.DurationFlag{
						Name:    "expires-in",
						Aliases: []string{"e"},
						Usage:   "Time until the ticket expires (e.g., 72h); omit for no deadline",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.WithTicketUseCase(ctx, func(
						ctx context.Context,
						useCase ticketUseCase.UseCase,
						logger *slog.Logger,
					) error {
						return commands.RunCreateTicket(
							ctx,
							useCase,
							logger,
							cmd.String("place"),
							cmd.String("purpose"),
							cmd.String("payload"),
							cmd.Duration("expires-in"),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "clean-tickets",
				Usage: "Delete tickets whose expiration deadline has passed",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many tickets would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.WithTicketUseCase(ctx, func(
						ctx context.Context,
						useCase ticketUseCase.UseCase,
						logger *slog.Logger,
					) error {
						return commands.RunCleanTickets(
							ctx,
							useCase,
							logger,
							os.Stdout,
							cmd.Bool("dry-run"),
							cmd.String("format"),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
