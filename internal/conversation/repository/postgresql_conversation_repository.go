// Package repository provides PostgreSQL and MySQL persistence for conversations and messages.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/emoticare/internal/conversation/domain"
	"github.com/allisson/emoticare/internal/database"
	apperrors "github.com/allisson/emoticare/internal/errors"
)

// PostgreSQLConversationRepository implements conversation persistence for PostgreSQL.
type PostgreSQLConversationRepository struct {
	db *sql.DB
}

// NewPostgreSQLConversationRepository creates a PostgreSQL conversation repository.
func NewPostgreSQLConversationRepository(db *sql.DB) *PostgreSQLConversationRepository {
	return &PostgreSQLConversationRepository{db: db}
}

// Create inserts a conversation.
func (p *PostgreSQLConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO conversations (id, user_id, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, conversation.ID, conversation.UserID, conversation.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create conversation")
	}
	return nil
}

// GetByID retrieves a conversation by ID.
func (p *PostgreSQLConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, created_at FROM conversations WHERE id = $1`

	var conversation domain.Conversation
	err := querier.QueryRowContext(ctx, query, id).
		Scan(&conversation.ID, &conversation.UserID, &conversation.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get conversation")
	}
	return &conversation, nil
}

// ListByUser returns the user's conversations ordered by created_at descending.
func (p *PostgreSQLConversationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, created_at FROM conversations
			  WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list conversations")
	}
	defer func() {
		_ = rows.Close()
	}()

	conversations := make([]*domain.Conversation, 0)
	for rows.Next() {
		var conversation domain.Conversation
		if err := rows.Scan(&conversation.ID, &conversation.UserID, &conversation.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan conversation")
		}
		conversations = append(conversations, &conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate conversations")
	}
	return conversations, nil
}

// DeleteByUser removes every conversation owned by userID.
func (p *PostgreSQLConversationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM conversations WHERE user_id = $1`, userID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete conversations")
	}
	return rowsAffected(result)
}

func rowsAffected(result sql.Result) (int64, error) {
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}
