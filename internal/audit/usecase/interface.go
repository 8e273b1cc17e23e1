// Package usecase implements audit recording and querying.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
)

// AuditEventRepository defines persistence operations for audit events.
type AuditEventRepository interface {
	// Create appends an event.
	Create(ctx context.Context, event *auditDomain.AuditEvent) error

	// List returns events newest first. userID narrows the result when not nil.
	List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]*auditDomain.AuditEvent, error)

	// DeleteOlderThan removes events created before olderThan and returns how many were removed.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// Recorder appends audit events without ever failing the caller.
type Recorder interface {
	// Record queues an event. userID may be nil. It never blocks beyond an in-memory enqueue.
	Record(ctx context.Context, action auditDomain.Action, userID *uuid.UUID, detail, sourceAddress string)
}

// AuditEventUseCase queries and prunes the audit trail.
type AuditEventUseCase interface {
	// List returns events newest first, optionally narrowed to one principal.
	List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]*auditDomain.AuditEvent, error)

	// DeleteOlderThan removes events older than the given number of days. With dryRun the
	// matching events are only counted.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
