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

func newEvent(userID *uuid.UUID) *auditDomain.AuditEvent {
	return &auditDomain.AuditEvent{
		ID:            uuid.Must(uuid.NewV7()),
		UserID:        userID,
		Action:        auditDomain.ActionLogin,
		Detail:        "login ok",
		SourceAddress: "10.0.0.1",
		CreatedAt:     time.Now().UTC(),
	}
}

func TestPostgreSQLAuditEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithUser", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.Must(uuid.NewV7())
		event := newEvent(&userID)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
			WithArgs(event.ID, uuid.NullUUID{UUID: userID, Valid: true}, "LOGIN", "login ok", "10.0.0.1", event.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewPostgreSQLAuditEventRepository(db)
		require.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_WithoutUser", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		event := newEvent(nil)
		event.Action = auditDomain.ActionLoginFailed

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
			WithArgs(event.ID, uuid.NullUUID{}, "LOGIN_FAILED", "login ok", "10.0.0.1", event.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewPostgreSQLAuditEventRepository(db)
		require.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Exec", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).WillReturnError(errors.New("boom"))

		repo := NewPostgreSQLAuditEventRepository(db)
		err = repo.Create(ctx, newEvent(nil))
		assert.ErrorContains(t, err, "failed to create audit event")
	})
}

func TestPostgreSQLAuditEventRepository_List(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "user_id", "action", "detail", "source_address", "created_at"}

	t.Run("Success_AllEvents", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		id1 := uuid.Must(uuid.NewV7())
		id2 := uuid.Must(uuid.NewV7())
		userID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		rows := sqlmock.NewRows(columns).
			AddRow(id2.String(), userID.String(), "DELETE_DATA", "", "1.1.1.1", now).
			AddRow(id1.String(), nil, "LOGIN_FAILED", "email: a@b.c", "1.1.1.1", now.Add(-time.Minute))

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
			WithArgs(10, 0).
			WillReturnRows(rows)

		repo := NewPostgreSQLAuditEventRepository(db)
		events, err := repo.List(ctx, nil, 0, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, id2, events[0].ID)
		require.NotNil(t, events[0].UserID)
		assert.Equal(t, userID, *events[0].UserID)
		assert.Equal(t, auditDomain.ActionDeleteData, events[0].Action)
		assert.Nil(t, events[1].UserID)
		assert.Equal(t, "email: a@b.c", events[1].Detail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_FilteredByUser", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.Must(uuid.NewV7())
		mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
			WithArgs(userID, 5, 5).
			WillReturnRows(sqlmock.NewRows(columns))

		repo := NewPostgreSQLAuditEventRepository(db)
		events, err := repo.List(ctx, &userID, 5, 5)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.NotNil(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

		repo := NewPostgreSQLAuditEventRepository(db)
		_, err = repo.List(ctx, nil, 0, 10)
		assert.ErrorContains(t, err, "failed to list audit events")
	})
}

func TestPostgreSQLAuditEventRepository_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Now().UTC().AddDate(0, 0, -90)

	t.Run("Success_Delete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_logs WHERE created_at < $1")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 7))

		repo := NewPostgreSQLAuditEventRepository(db)
		count, err := repo.DeleteOlderThan(ctx, cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_DryRunOnlyCounts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_logs WHERE created_at < $1")).
			WithArgs(cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		repo := NewPostgreSQLAuditEventRepository(db)
		count, err := repo.DeleteOlderThan(ctx, cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
