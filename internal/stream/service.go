package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
	auditUseCase "github.com/allisson/emoticare/internal/audit/usecase"
	authDomain "github.com/allisson/emoticare/internal/auth/domain"
	authUseCase "github.com/allisson/emoticare/internal/auth/usecase"
	conversationDomain "github.com/allisson/emoticare/internal/conversation/domain"
	apperrors "github.com/allisson/emoticare/internal/errors"
	generationDomain "github.com/allisson/emoticare/internal/generation/domain"
	generationService "github.com/allisson/emoticare/internal/generation/service"
	"github.com/allisson/emoticare/internal/metrics"
	"github.com/allisson/emoticare/internal/ratelimit"
)

// MessageAppender persists encrypted conversation messages.
type MessageAppender interface {
	AppendMessage(
		ctx context.Context,
		conversationID uuid.UUID,
		role conversationDomain.Role,
		language, text string,
	) (*conversationDomain.Message, error)
}

// Service dispatches inbound frames. Every join and every submitted message is authenticated
// and authorized again, so a connection holds no credentials of its own.
type Service struct {
	gate      authUseCase.SessionGate
	messages  MessageAppender
	generator generationService.Generator
	audit     auditUseCase.Recorder
	hub       *Hub
	limiter   *ratelimit.Store[uuid.UUID]
	metrics   metrics.StreamMetrics
	logger    *slog.Logger
}

// NewService creates a Service. limiter may be nil to disable per-principal rate limiting.
// generator is expected to already substitute fallback replies for upstream failures.
func NewService(
	gate authUseCase.SessionGate,
	messages MessageAppender,
	generator generationService.Generator,
	audit auditUseCase.Recorder,
	hub *Hub,
	limiter *ratelimit.Store[uuid.UUID],
	m metrics.StreamMetrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		gate:      gate,
		messages:  messages,
		generator: generator,
		audit:     audit,
		hub:       hub,
		limiter:   limiter,
		metrics:   m,
		logger:    logger,
	}
}

// Hub returns the room registry.
func (s *Service) Hub() *Hub {
	return s.hub
}

// Dispatch handles one inbound text frame. Malformed frames and unknown events are answered
// with an error frame and never close the connection.
func (s *Service) Dispatch(ctx context.Context, conn *Connection, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.sendError(conn, ErrMessageInvalidPayload)
		return
	}

	switch frame.Event {
	case EventJoinSession:
		var payload JoinSessionPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			s.sendError(conn, ErrMessageInvalidPayload)
			return
		}
		s.join(ctx, conn, payload)
	case EventUserMessage:
		var payload UserMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			s.sendError(conn, ErrMessageInvalidPayload)
			return
		}
		s.submit(ctx, conn, payload)
	default:
		s.sendError(conn, ErrMessageInvalidPayload)
	}
}

// Connect registers a freshly upgraded connection.
func (s *Service) Connect(conn *Connection) {
	s.hub.Register(conn)
	s.metrics.ConnectionOpened(conn.Context())
}

// Disconnect removes conn from every room and closes it. Any reply still being generated for
// this connection is cancelled through its context.
func (s *Service) Disconnect(conn *Connection) {
	s.hub.Unregister(conn)
	conn.Close()
	s.metrics.ConnectionClosed(context.Background())
}

func (s *Service) join(ctx context.Context, conn *Connection, payload JoinSessionPayload) {
	if payload.Token == "" || payload.ConversationID == "" {
		s.sendError(conn, ErrMessageInvalidPayload)
		return
	}

	principal, conversationID, err := s.authorize(ctx, payload.Token, payload.ConversationID)
	if err != nil {
		s.handleAuthorizeError(conn, principal, payload.ConversationID, err)
		return
	}

	s.hub.Join(conversationID, conn)
	s.audit.Record(
		ctx,
		auditDomain.ActionSessionJoined,
		&principal,
		"conversation: "+conversationID.String(),
		conn.RemoteAddr(),
	)
	s.send(conn, EventSessionJoined, SessionJoinedPayload{
		Status:         "success",
		ConversationID: conversationID.String(),
	})
}

func (s *Service) submit(ctx context.Context, conn *Connection, payload UserMessagePayload) {
	if payload.Token == "" || payload.ConversationID == "" || payload.Text == "" {
		s.sendError(conn, ErrMessageInvalidPayload)
		return
	}

	principal, conversationID, err := s.authorize(ctx, payload.Token, payload.ConversationID)
	if err != nil {
		s.handleAuthorizeError(conn, principal, payload.ConversationID, err)
		return
	}

	if s.limiter != nil {
		if allowed, _ := s.limiter.Allow(principal); !allowed {
			s.sendError(conn, ErrMessageRateLimited)
			return
		}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("stream submit panicked",
				slog.String("conversation_id", conversationID.String()),
				slog.Any("panic", r),
			)
			s.sendError(conn, ErrMessageInternal)
		}
	}()

	if err := s.respond(ctx, conn, principal, conversationID, payload); err != nil {
		if ctx.Err() != nil {
			s.metrics.RecordReply(context.Background(), metrics.ReplyCancelled)
			return
		}
		s.metrics.RecordReply(ctx, metrics.ReplyFailed)
		s.logger.Error("stream submit failed",
			slog.String("conversation_id", conversationID.String()),
			slog.Any("error", err),
		)
		s.sendError(conn, ErrMessageInternal)
	}
}

// respond stores the user message, streams the reply to the room and stores the reply. The
// done event is broadcast only after the reply is persisted. A cancelled ctx stops the reply
// and nothing more is stored.
func (s *Service) respond(
	ctx context.Context,
	conn *Connection,
	principal, conversationID uuid.UUID,
	payload UserMessagePayload,
) error {
	language := generationDomain.ResolveLanguage(payload.Language, payload.Text)
	tag := generationDomain.MessageLanguage(payload.Language, language)

	_, err := s.messages.AppendMessage(ctx, conversationID, conversationDomain.RoleUser, tag, payload.Text)
	if err != nil {
		return fmt.Errorf("store user message: %w", err)
	}
	s.audit.Record(
		ctx,
		auditDomain.ActionMessageSubmitted,
		&principal,
		"conversation: "+conversationID.String(),
		conn.RemoteAddr(),
	)

	var reply strings.Builder
	for chunk, err := range s.generator.Stream(ctx, payload.Text, language) {
		if err != nil {
			return fmt.Errorf("generate reply: %w", err)
		}
		reply.WriteString(chunk)
		delivered := s.broadcast(conversationID, EventAssistantToken, AssistantTokenPayload{
			Chunk:          chunk,
			ConversationID: conversationID.String(),
		})
		s.metrics.RecordFragment(ctx, delivered)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if reply.Len() == 0 {
		return nil
	}

	_, err = s.messages.AppendMessage(
		ctx,
		conversationID,
		conversationDomain.RoleAssistant,
		tag,
		reply.String(),
	)
	if err != nil {
		return fmt.Errorf("store assistant message: %w", err)
	}

	s.broadcast(conversationID, EventAssistantDone, AssistantDonePayload{
		ConversationID: conversationID.String(),
	})
	s.metrics.RecordReply(ctx, metrics.ReplyCompleted)
	return nil
}

func (s *Service) authorize(
	ctx context.Context,
	token, rawConversationID string,
) (uuid.UUID, uuid.UUID, error) {
	principal, err := s.gate.Authenticate(ctx, token)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	conversationID, err := uuid.Parse(rawConversationID)
	if err != nil {
		return principal, uuid.Nil, authDomain.ErrConversationAccessDenied
	}

	if _, err := s.gate.AuthorizeJoin(ctx, principal, conversationID); err != nil {
		return principal, uuid.Nil, err
	}
	return principal, conversationID, nil
}

func (s *Service) handleAuthorizeError(conn *Connection, principal uuid.UUID, rawConversationID string, err error) {
	if isDenied(err) {
		var userID *uuid.UUID
		if principal != uuid.Nil {
			userID = &principal
		}
		s.audit.Record(
			conn.Context(),
			auditDomain.ActionSessionDenied,
			userID,
			"conversation: "+rawConversationID,
			conn.RemoteAddr(),
		)
		s.sendError(conn, ErrMessageUnauthorized)
		return
	}

	s.logger.Error("stream authorization failed", slog.Any("error", err))
	s.sendError(conn, ErrMessageInternal)
}

// isDenied reports token and ownership failures. They share one client-facing message.
func isDenied(err error) bool {
	return apperrors.Is(err, apperrors.ErrUnauthorized)
}

func (s *Service) broadcast(roomID uuid.UUID, event string, payload any) int {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		s.logger.Error("failed to encode stream frame", slog.String("event", event), slog.Any("error", err))
		return 0
	}
	return s.hub.Broadcast(roomID, frame)
}

func (s *Service) send(conn *Connection, event string, payload any) {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		s.logger.Error("failed to encode stream frame", slog.String("event", event), slog.Any("error", err))
		return
	}
	conn.Send(frame)
}

func (s *Service) sendError(conn *Connection, message string) {
	s.send(conn, EventError, ErrorPayload{Message: message})
}
