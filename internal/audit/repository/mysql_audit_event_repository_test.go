package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/emoticare/internal/audit/domain"
)

func TestMySQLAuditEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BinaryUUIDs", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.Must(uuid.NewV7())
		event := newEvent(&userID)
		id, _ := event.ID.MarshalBinary()
		uid, _ := userID.MarshalBinary()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
			WithArgs(id, uid, "LOGIN", "login ok", "10.0.0.1", event.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewMySQLAuditEventRepository(db)
		require.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_NullUser", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		event := newEvent(nil)
		id, _ := event.ID.MarshalBinary()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
			WithArgs(id, nil, "LOGIN", "login ok", "10.0.0.1", event.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewMySQLAuditEventRepository(db)
		require.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Exec", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT").WillReturnError(errors.New("boom"))

		repo := NewMySQLAuditEventRepository(db)
		assert.Error(t, repo.Create(ctx, newEvent(nil)))
	})
}

func TestMySQLAuditEventRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	id := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	idBinary, _ := id.MarshalBinary()
	userIDBinary, _ := userID.MarshalBinary()

	rows := sqlmock.NewRows([]string{"id", "user_id", "action", "detail", "source_address", "created_at"}).
		AddRow(idBinary, userIDBinary, "SESSION_JOINED", "conversation", "", time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs(userIDBinary, 50, 0).
		WillReturnRows(rows)

	repo := NewMySQLAuditEventRepository(db)
	events, err := repo.List(context.Background(), &userID, 0, 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, userID, *events[0].UserID)
	assert.Equal(t, auditDomain.ActionSessionJoined, events[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuditEventRepository_DeleteOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	cutoff := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_logs WHERE created_at < ?")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewMySQLAuditEventRepository(db)
	count, err := repo.DeleteOlderThan(context.Background(), cutoff, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
