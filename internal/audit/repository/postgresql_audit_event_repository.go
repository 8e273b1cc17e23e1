// Package repository persists audit events in PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
	"github.com/allisson/emoticare/internal/database"
	apperrors "github.com/allisson/emoticare/internal/errors"
)

// PostgreSQLAuditEventRepository implements audit event persistence for PostgreSQL.
type PostgreSQLAuditEventRepository struct {
	db *sql.DB
}

// Create inserts an audit event. A nil UserID is stored as NULL.
func (p *PostgreSQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, p.db)

	var userID uuid.NullUUID
	if event.UserID != nil {
		userID = uuid.NullUUID{UUID: *event.UserID, Valid: true}
	}

	query := `INSERT INTO audit_logs (id, user_id, action, detail, source_address, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		userID,
		string(event.Action),
		event.Detail,
		event.SourceAddress,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

// List returns audit events ordered by created_at descending.
func (p *PostgreSQLAuditEventRepository) List(
	ctx context.Context,
	userID *uuid.UUID,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, action, detail, source_address, created_at
			  FROM audit_logs`
	args := []any{}
	if userID != nil {
		query += " WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, *userID, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*auditDomain.AuditEvent, 0)
	for rows.Next() {
		var event auditDomain.AuditEvent
		var nullUserID uuid.NullUUID
		var action string

		if err := rows.Scan(
			&event.ID,
			&nullUserID,
			&action,
			&event.Detail,
			&event.SourceAddress,
			&event.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		if nullUserID.Valid {
			id := nullUserID.UUID
			event.UserID = &id
		}
		event.Action = auditDomain.Action(action)
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}
	return events, nil
}

// DeleteOlderThan removes (or with dryRun counts) events created before olderThan.
func (p *PostgreSQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM audit_logs WHERE created_at < $1`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit events")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// NewPostgreSQLAuditEventRepository creates a PostgreSQL audit event repository.
func NewPostgreSQLAuditEventRepository(db *sql.DB) *PostgreSQLAuditEventRepository {
	return &PostgreSQLAuditEventRepository{db: db}
}
