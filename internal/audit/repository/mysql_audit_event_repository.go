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

// MySQLAuditEventRepository implements audit event persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAuditEventRepository struct {
	db *sql.DB
}

// Create inserts an audit event. A nil UserID is stored as NULL.
func (m *MySQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event id")
	}

	var userID any
	if event.UserID != nil {
		uid, err := event.UserID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit event user_id")
		}
		userID = uid
	}

	query := `INSERT INTO audit_logs (id, user_id, action, detail, source_address, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLAuditEventRepository) List(
	ctx context.Context,
	userID *uuid.UUID,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, action, detail, source_address, created_at
			  FROM audit_logs`
	args := []any{}
	if userID != nil {
		userIDBinary, err := userID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal user id")
		}
		query += " WHERE user_id = ?"
		args = append(args, userIDBinary)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

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
		var idBinary, userIDBinary []byte
		var action string

		if err := rows.Scan(
			&idBinary,
			&userIDBinary,
			&action,
			&event.Detail,
			&event.SourceAddress,
			&event.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		if err := event.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event id")
		}
		if userIDBinary != nil {
			var id uuid.UUID
			if err := id.UnmarshalBinary(userIDBinary); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit event user_id")
			}
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
func (m *MySQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit events")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// NewMySQLAuditEventRepository creates a MySQL audit event repository.
func NewMySQLAuditEventRepository(db *sql.DB) *MySQLAuditEventRepository {
	return &MySQLAuditEventRepository{db: db}
}
