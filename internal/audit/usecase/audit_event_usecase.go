package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
	apperrors "github.com/allisson/emoticare/internal/errors"
)

type auditEventUseCase struct {
	repo AuditEventRepository
}

// List returns events newest first.
func (a *auditEventUseCase) List(
	ctx context.Context,
	userID *uuid.UUID,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	events, err := a.repo.List(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return events, nil
}

// DeleteOlderThan removes events created more than days ago.
func (a *auditEventUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be zero or positive")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	count, err := a.repo.DeleteOlderThan(ctx, cutoff, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}
	return count, nil
}

// NewAuditEventUseCase creates an AuditEventUseCase.
func NewAuditEventUseCase(repo AuditEventRepository) AuditEventUseCase {
	return &auditEventUseCase{repo: repo}
}
