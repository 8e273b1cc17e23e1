package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	conversationDomain "github.com/allisson/emoticare/internal/conversation/domain"
	"github.com/allisson/emoticare/internal/metrics"
)

// sessionGateWithMetrics decorates SessionGate with metrics instrumentation.
type sessionGateWithMetrics struct {
	next    SessionGate
	metrics metrics.BusinessMetrics
}

// NewSessionGateWithMetrics wraps a SessionGate with metrics recording.
func NewSessionGateWithMetrics(gate SessionGate, m metrics.BusinessMetrics) SessionGate {
	return &sessionGateWithMetrics{next: gate, metrics: m}
}

// Authenticate records metrics for token verification.
func (s *sessionGateWithMetrics) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	start := time.Now()
	principal, err := s.next.Authenticate(ctx, token)
	s.record(ctx, "authenticate", start, err)
	return principal, err
}

// AuthorizeJoin records metrics for conversation authorization.
func (s *sessionGateWithMetrics) AuthorizeJoin(
	ctx context.Context,
	principal, conversationID uuid.UUID,
) (*conversationDomain.Conversation, error) {
	start := time.Now()
	conversation, err := s.next.AuthorizeJoin(ctx, principal, conversationID)
	s.record(ctx, "authorize_join", start, err)
	return conversation, err
}

func (s *sessionGateWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "auth", operation, status)
	s.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
