package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/emoticare/cmd/app/commands"
	"github.com/allisson/emoticare/internal/app"
	"github.com/allisson/emoticare/internal/config"
)

func retentionFlags(usage string, required bool) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "days",
			Aliases:  []string{"d"},
			Required: required,
			Usage:    usage,
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Value:   false,
			Usage:   "Show how many rows would be deleted without deleting",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "text",
			Usage:   "Output format: 'text' or 'json'",
		},
	}
}

func getDataCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-audit-logs",
			Usage: "Delete audit logs older than specified days",
			Flags: retentionFlags("Delete audit logs older than this many days", true),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				auditEventUseCase, err := container.AuditEventUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanAuditLogs(
					ctx,
					auditEventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-expired-messages",
			Usage: "Delete conversation messages older than the retention period",
			Flags: retentionFlags("Delete messages older than this many days (defaults to DATA_RETENTION_DAYS)", false),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				conversationUseCase, err := container.ConversationUseCase()
				if err != nil {
					return err
				}

				days := cfg.DataRetentionDays
				if cmd.IsSet("days") {
					days = int(cmd.Int("days"))
				}

				return commands.RunCleanExpiredMessages(
					ctx,
					conversationUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					days,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
