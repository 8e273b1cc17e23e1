package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/emoticare/internal/conversation/domain"
	"github.com/allisson/emoticare/internal/database"
	apperrors "github.com/allisson/emoticare/internal/errors"
)

// MySQLMessageRepository implements message persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLMessageRepository struct {
	db *sql.DB
}

// NewMySQLMessageRepository creates a MySQL message repository.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

// Create inserts a message.
func (m *MySQLMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	querier := database.GetTx(ctx, m.db)

	id, err := message.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}
	conversationID, err := message.ConversationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message conversation_id")
	}

	query := `INSERT INTO messages (id, conversation_id, role, language, content_encrypted, key_encrypted, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		conversationID,
		string(message.Role),
		message.Language,
		message.Envelope.Ciphertext,
		message.Envelope.WrappedKey,
		message.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

// ListByConversation returns the conversation's messages ordered by created_at ascending.
func (m *MySQLMessageRepository) ListByConversation(
	ctx context.Context,
	conversationID uuid.UUID,
) ([]*domain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	conversationIDBinary, err := conversationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal conversation id")
	}

	query := `SELECT id, conversation_id, role, language, content_encrypted, key_encrypted, created_at
			  FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, conversationIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var message domain.Message
		var idBinary, conversationBinary []byte
		var role string
		if err := rows.Scan(
			&idBinary,
			&conversationBinary,
			&role,
			&message.Language,
			&message.Envelope.Ciphertext,
			&message.Envelope.WrappedKey,
			&message.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan message")
		}
		if err := message.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal message id")
		}
		if err := message.ConversationID.UnmarshalBinary(conversationBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal message conversation_id")
		}
		message.Role = domain.Role(role)
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate messages")
	}
	return messages, nil
}

// DeleteByUser removes every message in conversations owned by userID.
func (m *MySQLMessageRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	userIDBinary, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE user_id = ?)`

	result, err := querier.ExecContext(ctx, query, userIDBinary)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete messages")
	}
	return rowsAffected(result)
}

// DeleteOlderThan removes (or with dryRun counts) messages created before olderThan.
func (m *MySQLMessageRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM messages WHERE created_at < ?`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count messages")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM messages WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete messages")
	}
	return rowsAffected(result)
}
