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

// MySQLConversationRepository implements conversation persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLConversationRepository struct {
	db *sql.DB
}

// NewMySQLConversationRepository creates a MySQL conversation repository.
func NewMySQLConversationRepository(db *sql.DB) *MySQLConversationRepository {
	return &MySQLConversationRepository{db: db}
}

// Create inserts a conversation.
func (m *MySQLConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	querier := database.GetTx(ctx, m.db)

	id, err := conversation.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}
	userID, err := conversation.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation user_id")
	}

	query := `INSERT INTO conversations (id, user_id, created_at) VALUES (?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, id, userID, conversation.CreatedAt); err != nil {
		return apperrors.Wrap(err, "failed to create conversation")
	}
	return nil
}

// GetByID retrieves a conversation by ID.
func (m *MySQLConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal conversation id")
	}

	query := `SELECT id, user_id, created_at FROM conversations WHERE id = ?`

	var conversation domain.Conversation
	var rowID, userID []byte
	err = querier.QueryRowContext(ctx, query, idBinary).Scan(&rowID, &userID, &conversation.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get conversation")
	}

	if err := unmarshalConversationIDs(&conversation, rowID, userID); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListByUser returns the user's conversations ordered by created_at descending.
func (m *MySQLConversationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	querier := database.GetTx(ctx, m.db)

	userIDBinary, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, user_id, created_at FROM conversations
			  WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, userIDBinary, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list conversations")
	}
	defer func() {
		_ = rows.Close()
	}()

	conversations := make([]*domain.Conversation, 0)
	for rows.Next() {
		var conversation domain.Conversation
		var rowID, rowUserID []byte
		if err := rows.Scan(&rowID, &rowUserID, &conversation.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan conversation")
		}
		if err := unmarshalConversationIDs(&conversation, rowID, rowUserID); err != nil {
			return nil, err
		}
		conversations = append(conversations, &conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate conversations")
	}
	return conversations, nil
}

// DeleteByUser removes every conversation owned by userID.
func (m *MySQLConversationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	userIDBinary, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM conversations WHERE user_id = ?`, userIDBinary)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete conversations")
	}
	return rowsAffected(result)
}

func unmarshalConversationIDs(conversation *domain.Conversation, id, userID []byte) error {
	if err := conversation.ID.UnmarshalBinary(id); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal conversation id")
	}
	if err := conversation.UserID.UnmarshalBinary(userID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal conversation user_id")
	}
	return nil
}
