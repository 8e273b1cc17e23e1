package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// MessageRetention is the part of the conversation use case the retention command needs.
type MessageRetention interface {
	DeleteExpiredMessages(ctx context.Context, days int, dryRun bool) (int64, error)
}

// RunCleanExpiredMessages deletes stored messages older than days across every conversation.
func RunCleanExpiredMessages(
	ctx context.Context,
	retention MessageRetention,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if err := validateRetention(days, format); err != nil {
		return err
	}

	logger.Info("cleaning expired messages", slog.Int("days", days), slog.Bool("dry_run", dryRun))

	count, err := retention.DeleteExpiredMessages(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired messages: %w", err)
	}

	logger.Info("expired messages cleaned", slog.Int64("count", count), slog.Bool("dry_run", dryRun))

	return writePurgeResult(writer, format, "message(s)", purgeResult{Count: count, Days: days, DryRun: dryRun})
}
