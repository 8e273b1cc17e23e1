package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditUseCase "github.com/allisson/emoticare/internal/audit/usecase"
)

// RunCleanAuditLogs deletes audit events older than days. With dryRun the matching events
// are only counted.
func RunCleanAuditLogs(
	ctx context.Context,
	useCase auditUseCase.AuditEventUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if err := validateRetention(days, format); err != nil {
		return err
	}

	logger.Info("cleaning audit logs", slog.Int("days", days), slog.Bool("dry_run", dryRun))

	count, err := useCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean audit logs: %w", err)
	}

	logger.Info("audit logs cleaned", slog.Int64("count", count), slog.Bool("dry_run", dryRun))

	return writePurgeResult(writer, format, "audit log(s)", purgeResult{Count: count, Days: days, DryRun: dryRun})
}
