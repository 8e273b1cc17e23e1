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

// PostgreSQLMessageRepository implements message persistence for PostgreSQL.
// Only envelope ciphertext ever reaches the messages table.
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// NewPostgreSQLMessageRepository creates a PostgreSQL message repository.
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}

// Create inserts a message.
func (p *PostgreSQLMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO messages (id, conversation_id, role, language, content_encrypted, key_encrypted, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		message.ID,
		message.ConversationID,
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
func (p *PostgreSQLMessageRepository) ListByConversation(
	ctx context.Context,
	conversationID uuid.UUID,
) ([]*domain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, conversation_id, role, language, content_encrypted, key_encrypted, created_at
			  FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var message domain.Message
		var role string
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&role,
			&message.Language,
			&message.Envelope.Ciphertext,
			&message.Envelope.WrappedKey,
			&message.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan message")
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
func (p *PostgreSQLMessageRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE user_id = $1)`

	result, err := querier.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete messages")
	}
	return rowsAffected(result)
}

// DeleteOlderThan removes (or with dryRun counts) messages created before olderThan.
func (p *PostgreSQLMessageRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM messages WHERE created_at < $1`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count messages")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM messages WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete messages")
	}
	return rowsAffected(result)
}
