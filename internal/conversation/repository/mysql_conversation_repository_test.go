package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/emoticare/internal/conversation/domain"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLConversationRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	conversation := newConversation()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversations (id, user_id, created_at) VALUES (?, ?, ?)")).
		WithArgs(mustBinary(t, conversation.ID), mustBinary(t, conversation.UserID), conversation.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewMySQLConversationRepository(db)
	require.NoError(t, repo.Create(ctx, conversation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConversationRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "user_id", "created_at"}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		conversation := newConversation()
		mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE id = ?")).
			WithArgs(mustBinary(t, conversation.ID)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(mustBinary(t, conversation.ID), mustBinary(t, conversation.UserID), conversation.CreatedAt))

		repo := NewMySQLConversationRepository(db)
		got, err := repo.GetByID(ctx, conversation.ID)
		require.NoError(t, err)
		assert.Equal(t, conversation.ID, got.ID)
		assert.Equal(t, conversation.UserID, got.UserID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(columns))

		repo := NewMySQLConversationRepository(db)
		_, err = repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})
}
