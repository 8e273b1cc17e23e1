package stream

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// detachedConnection builds a connection with no socket so the hub can be exercised alone.
func detachedConnection(t *testing.T, buffer int) *Connection {
	t.Helper()
	opts := DefaultOptions()
	opts.SendBuffer = buffer
	conn := newConnection(context.Background(), nil, "127.0.0.1", opts, discardLogger())
	t.Cleanup(conn.Close)
	return conn
}

func drain(conn *Connection) [][]byte {
	var frames [][]byte
	for {
		select {
		case frame := <-conn.send:
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestHub_JoinLeave(t *testing.T) {
	hub := NewHub()
	room := uuid.Must(uuid.NewV7())
	conn := detachedConnection(t, 4)
	hub.Register(conn)

	hub.Join(room, conn)
	hub.Join(room, conn)
	assert.True(t, hub.IsMember(room, conn))
	assert.Len(t, hub.Members(room), 1)
	assert.Equal(t, 1, hub.RoomCount())

	hub.Leave(room, conn)
	assert.False(t, hub.IsMember(room, conn))
	assert.Equal(t, 0, hub.RoomCount())
	assert.Equal(t, 1, hub.ConnectionCount())
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	roomA := uuid.Must(uuid.NewV7())
	roomB := uuid.Must(uuid.NewV7())
	conn := detachedConnection(t, 4)
	other := detachedConnection(t, 4)
	hub.Register(conn)
	hub.Register(other)
	hub.Join(roomA, conn)
	hub.Join(roomB, conn)
	hub.Join(roomB, other)

	hub.Unregister(conn)

	assert.False(t, hub.IsMember(roomA, conn))
	assert.False(t, hub.IsMember(roomB, conn))
	assert.True(t, hub.IsMember(roomB, other))
	assert.Equal(t, 1, hub.RoomCount())
	assert.Equal(t, 1, hub.ConnectionCount())
	assert.Empty(t, conn.rooms)
}

func TestHub_Broadcast(t *testing.T) {
	t.Run("Success_OnlyRoomMembers", func(t *testing.T) {
		hub := NewHub()
		room := uuid.Must(uuid.NewV7())
		elsewhere := uuid.Must(uuid.NewV7())
		first := detachedConnection(t, 4)
		second := detachedConnection(t, 4)
		outsider := detachedConnection(t, 4)
		hub.Join(room, first)
		hub.Join(room, second)
		hub.Join(elsewhere, outsider)

		delivered := hub.Broadcast(room, []byte("one"))
		hub.Broadcast(room, []byte("two"))

		assert.Equal(t, 2, delivered)
		assert.Equal(t, [][]byte{[]byte("one"), []byte("two")}, drain(first))
		assert.Equal(t, [][]byte{[]byte("one"), []byte("two")}, drain(second))
		assert.Empty(t, drain(outsider))
	})

	t.Run("Success_EmptyRoom", func(t *testing.T) {
		hub := NewHub()
		assert.Equal(t, 0, hub.Broadcast(uuid.Must(uuid.NewV7()), []byte("x")))
	})

	t.Run("Error_FullQueueClosesConnection", func(t *testing.T) {
		hub := NewHub()
		room := uuid.Must(uuid.NewV7())
		slow := detachedConnection(t, 1)
		fast := detachedConnection(t, 8)
		hub.Join(room, slow)
		hub.Join(room, fast)

		hub.Broadcast(room, []byte("one"))
		delivered := hub.Broadcast(room, []byte("two"))

		assert.Equal(t, 1, delivered)
		assert.True(t, slow.Closed())
		assert.False(t, fast.Closed())
		assert.Len(t, drain(fast), 2)
	})
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()
	joined := detachedConnection(t, 1)
	idle := detachedConnection(t, 1)
	hub.Register(joined)
	hub.Register(idle)
	hub.Join(uuid.Must(uuid.NewV7()), joined)

	hub.CloseAll()

	assert.True(t, joined.Closed())
	assert.True(t, idle.Closed())
	require.Error(t, joined.Context().Err())
	assert.False(t, idle.Send([]byte("late")))
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		origin  string
		want    bool
	}{
		{name: "Success_EmptyAllowsAll", allowed: "", origin: "https://evil.example", want: true},
		{name: "Success_WildcardAllowsAll", allowed: "*", origin: "https://any.example", want: true},
		{name: "Success_Listed", allowed: "https://a.example, https://b.example", origin: "https://b.example", want: true},
		{name: "Success_NoOriginHeader", allowed: "https://a.example", origin: "", want: true},
		{name: "Error_NotListed", allowed: "https://a.example", origin: "https://c.example", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptestRequest(tt.origin)
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}
