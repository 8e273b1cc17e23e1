package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
)

const writeTimeout = 5 * time.Second

// AsyncRecorder queues audit events on a buffered channel and persists them from a single
// worker goroutine. A full queue or a failed write is logged and the event dropped.
type AsyncRecorder struct {
	repo   AuditEventRepository
	logger *slog.Logger
	queue  chan *auditDomain.AuditEvent

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncRecorder starts the worker. Close must be called to drain the queue and stop it.
func NewAsyncRecorder(repo AuditEventRepository, queueSize int, logger *slog.Logger) *AsyncRecorder {
	if queueSize <= 0 {
		queueSize = 1
	}

	r := &AsyncRecorder{
		repo:   repo,
		logger: logger,
		queue:  make(chan *auditDomain.AuditEvent, queueSize),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Record builds the event and enqueues it.
func (r *AsyncRecorder) Record(
	ctx context.Context,
	action auditDomain.Action,
	userID *uuid.UUID,
	detail, sourceAddress string,
) {
	event := &auditDomain.AuditEvent{
		ID:            uuid.Must(uuid.NewV7()),
		UserID:        userID,
		Action:        action,
		Detail:        detail,
		SourceAddress: sourceAddress,
		CreatedAt:     time.Now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.WarnContext(ctx, "audit recorder closed, dropping event", slog.String("action", string(action)))
		return
	}

	select {
	case r.queue <- event:
	default:
		r.logger.WarnContext(ctx, "audit queue full, dropping event", slog.String("action", string(action)))
	}
}

// Close stops accepting events, writes whatever is still queued and waits for the worker.
func (r *AsyncRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
}

func (r *AsyncRecorder) run() {
	defer close(r.done)

	for event := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := r.repo.Create(ctx, event); err != nil {
			r.logger.Error("failed to persist audit event",
				slog.String("action", string(event.Action)),
				slog.Any("error", err))
		}
		cancel()
	}
}
