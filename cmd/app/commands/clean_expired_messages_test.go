package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMessageRetention struct {
	mock.Mock
}

func (m *mockMessageRetention) DeleteExpiredMessages(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunCleanExpiredMessages(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("Success_TextOutput", func(t *testing.T) {
		retention := &mockMessageRetention{}
		retention.On("DeleteExpiredMessages", ctx, 30, false).Return(int64(12), nil)

		var out bytes.Buffer
		err := RunCleanExpiredMessages(ctx, retention, logger, &out, 30, false, "text")

		require.NoError(t, err)
		require.Equal(t, "Successfully deleted 12 message(s) older than 30 day(s)\n", out.String())
		retention.AssertExpectations(t)
	})

	t.Run("Success_DryRunText", func(t *testing.T) {
		retention := &mockMessageRetention{}
		retention.On("DeleteExpiredMessages", ctx, 7, true).Return(int64(3), nil)

		var out bytes.Buffer
		err := RunCleanExpiredMessages(ctx, retention, logger, &out, 7, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Dry run: 3 message(s) older than 7 day(s) would be deleted")
	})

	t.Run("Success_JSONOutput", func(t *testing.T) {
		retention := &mockMessageRetention{}
		retention.On("DeleteExpiredMessages", ctx, 90, false).Return(int64(0), nil)

		var out bytes.Buffer
		err := RunCleanExpiredMessages(ctx, retention, logger, &out, 90, false, "json")

		require.NoError(t, err)
		require.JSONEq(t, `{"count":0,"days":90,"dry_run":false}`, out.String())
	})

	t.Run("Error_ZeroDays", func(t *testing.T) {
		retention := &mockMessageRetention{}
		err := RunCleanExpiredMessages(ctx, retention, logger, &bytes.Buffer{}, 0, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "days must be a positive number")
		retention.AssertNotCalled(t, "DeleteExpiredMessages", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UseCase", func(t *testing.T) {
		retention := &mockMessageRetention{}
		retention.On("DeleteExpiredMessages", ctx, 30, false).Return(int64(0), errors.New("db down"))

		err := RunCleanExpiredMessages(ctx, retention, logger, &bytes.Buffer{}, 30, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired messages")
	})
}
