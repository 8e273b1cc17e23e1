package stream

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Handler upgrades HTTP requests to stream connections.
type Handler struct {
	service  *Service
	upgrader websocket.Upgrader
	opts     Options
	logger   *slog.Logger
}

// NewHandler creates a Handler. allowedOrigins is a comma-separated list; empty or "*"
// accepts any origin.
func NewHandler(service *Service, opts Options, allowedOrigins string, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		opts:   opts,
		logger: logger,
	}
}

// StreamHandler serves GET /v1/stream. Authentication happens per event, not at upgrade.
func (h *Handler) StreamHandler(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written an HTTP error response.
		h.logger.Debug("stream upgrade failed", slog.Any("error", err))
		return
	}

	conn := newConnection(c.Request.Context(), ws, c.ClientIP(), h.opts, h.logger)
	h.service.Connect(conn)

	go conn.writeLoop()
	conn.readLoop(h.service.Dispatch)

	h.service.Disconnect(conn)
	<-conn.writerDone
}

func originChecker(allowedOrigins string) func(r *http.Request) bool {
	origins := lo.FilterMap(strings.Split(allowedOrigins, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
	if len(origins) == 0 || lo.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return lo.Contains(origins, origin)
	}
}
