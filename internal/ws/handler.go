package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/services/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The protocol is unauthenticated; any origin may connect
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket connections and hands
// each one to a Client
type Handler struct {
	hub        *Hub
	controller *session.Controller
	logger     *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(hub *Hub, controller *session.Controller, logger *slog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		controller: controller,
		logger:     logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnID(uuid.NewString())
	h.logger.Info("connection opened",
		slog.String("conn_id", string(id)),
		slog.String("remote_addr", r.RemoteAddr),
	)

	client := NewClient(id, conn, h.hub, h.controller, h.logger)
	go client.Run()
}
