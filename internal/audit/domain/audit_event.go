// Package domain defines the audit trail entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what an audit event records.
type Action string

const (
	ActionRegister         Action = "REGISTER"
	ActionLogin            Action = "LOGIN"
	ActionLoginFailed      Action = "LOGIN_FAILED"
	ActionDeleteData       Action = "DELETE_DATA"
	ActionSessionJoined    Action = "SESSION_JOINED"
	ActionSessionDenied    Action = "SESSION_DENIED"
	ActionMessageSubmitted Action = "MESSAGE_SUBMITTED"
)

// AuditEvent is an immutable record of a security relevant action.
//
// UserID is nil when no principal could be established (a failed login for example).
// Events are never removed by privacy deletion; only the explicit retention command
// prunes them.
type AuditEvent struct {
	ID            uuid.UUID
	UserID        *uuid.UUID
	Action        Action
	Detail        string
	SourceAddress string
	CreatedAt     time.Time
}
