package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Options tunes per-connection behaviour.
type Options struct {
	// SendBuffer is the number of outbound frames queued per connection. A connection whose
	// queue is full is closed.
	SendBuffer int
	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration
	// PongTimeout is how long the peer may stay silent. Pings are sent at 9/10 of it.
	PongTimeout time.Duration
	// MaxMessageBytes is the largest inbound frame accepted.
	MaxMessageBytes int64
	// ReceiveBuffer is the number of inbound frames waiting for the handler. A connection that
	// overruns it is closed.
	ReceiveBuffer int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		SendBuffer:      256,
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		MaxMessageBytes: 64 * 1024,
		ReceiveBuffer:   16,
	}
}

// Connection is one websocket client. It owns a read loop, a handler worker and a write loop.
// Inbound frames are handled one at a time by the worker while the read loop keeps reading, so
// a peer that goes away cancels the connection context even in the middle of a reply.
// Outbound frames go through a buffered queue that only the write loop drains.
type Connection struct {
	ws         *websocket.Conn
	send       chan []byte
	inbound    chan []byte
	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once
	ctx        context.Context
	cancel     context.CancelFunc
	remoteAddr string
	opts       Options
	logger     *slog.Logger

	// rooms is guarded by Hub.mu.
	rooms map[uuid.UUID]struct{}
}

func newConnection(
	parent context.Context,
	ws *websocket.Conn,
	remoteAddr string,
	opts Options,
	logger *slog.Logger,
) *Connection {
	ctx, cancel := context.WithCancel(parent)
	return &Connection{
		ws:         ws,
		send:       make(chan []byte, opts.SendBuffer),
		inbound:    make(chan []byte, max(opts.ReceiveBuffer, 1)),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		remoteAddr: remoteAddr,
		opts:       opts,
		logger:     logger,
		rooms:      make(map[uuid.UUID]struct{}),
	}
}

// Context is cancelled when the connection closes.
func (c *Connection) Context() context.Context {
	return c.ctx
}

// RemoteAddr returns the client address recorded at upgrade time.
func (c *Connection) RemoteAddr() string {
	return c.remoteAddr
}

// Send enqueues a frame without blocking. It returns false when the connection is closed or
// when its queue is full, in which case the connection is closed.
func (c *Connection) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	case <-c.done:
		return false
	default:
		c.logger.Warn("stream send queue full, dropping connection", slog.String("remote_addr", c.remoteAddr))
		c.Close()
		return false
	}
}

// Close stops both loops and cancels the connection context. It is safe to call many times.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// Closed reports whether Close was called.
func (c *Connection) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// readLoop reads frames until the peer goes away and hands text frames to handle on a single
// worker goroutine. A read failure closes the connection at once, cancelling any handler in
// flight. readLoop returns after the worker has finished.
func (c *Connection) readLoop(handle func(ctx context.Context, conn *Connection, data []byte)) {
	handlerDone := make(chan struct{})
	go func() {
		defer close(handlerDone)
		for data := range c.inbound {
			if c.Closed() {
				continue
			}
			handle(c.ctx, c, data)
		}
	}()
	defer func() {
		c.Close()
		close(c.inbound)
		<-handlerDone
	}()

	c.ws.SetReadLimit(c.opts.MaxMessageBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	})

	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("stream read failed", slog.String("remote_addr", c.remoteAddr), slog.Any("error", err))
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
		if messageType != websocket.TextMessage {
			continue
		}

		select {
		case c.inbound <- data:
		default:
			c.logger.Warn("stream receive queue full, dropping connection", slog.String("remote_addr", c.remoteAddr))
			return
		}
	}
}

// writeLoop drains the send queue and keeps the peer alive with pings.
func (c *Connection) writeLoop() {
	ticker := time.NewTicker(c.opts.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		close(c.writerDone)
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("stream write failed", slog.String("remote_addr", c.remoteAddr), slog.Any("error", err))
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.opts.WriteTimeout),
			)
			return
		}
	}
}
