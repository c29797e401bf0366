package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/services/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client owns one WebSocket connection: one reader goroutine feeding
// commands to the controller and one writer goroutine draining the
// send buffer. It tracks every game code joined on this connection so
// the close of the socket turns into a Leave for each.
type Client struct {
	id         model.ConnID
	conn       *websocket.Conn
	hub        *Hub
	controller *session.Controller
	send       chan []byte
	joined     map[model.GameCode]bool
	logger     *slog.Logger
}

// NewClient creates a Client for an upgraded connection
func NewClient(id model.ConnID, conn *websocket.Conn, hub *Hub, controller *session.Controller, logger *slog.Logger) *Client {
	return &Client{
		id:         id,
		conn:       conn,
		hub:        hub,
		controller: controller,
		send:       make(chan []byte, sendBufferSize),
		joined:     make(map[model.GameCode]bool),
		logger:     logger.With(slog.String("conn_id", string(id))),
	}
}

// ID returns the connection's identity for the session roster
func (c *Client) ID() model.ConnID {
	return c.id
}

// Run starts the writer and runs the reader until the connection
// closes, then leaves every joined session
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c)
		close(c.send)
		_ = c.conn.Close()

		for code := range c.joined {
			c.controller.Leave(code, c.id)
		}
		c.logger.Info("connection closed", slog.Int("sessions_left", len(c.joined)))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", slog.String("error", err.Error()))
			}
			return
		}
		c.dispatch(data)
	}
}

// dispatch decodes one inbound frame and routes it to the controller.
// Malformed frames earn the sender an errorMessage; well-formed frames
// the controller deems stale are dropped there without a reply.
func (c *Client) dispatch(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError("malformed message")
		return
	}

	switch env.Type {
	case TypeJoinGame:
		var p JoinGamePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.GameCode == "" {
			c.sendError("joinGame requires a gameCode")
			return
		}
		code := model.GameCode(p.GameCode)

		// Subscribe before joining so this connection sees the join's
		// own broadcasts
		c.hub.Subscribe(c, code)
		c.joined[code] = true

		_, host := c.controller.Join(code, c.id, p.Name)
		c.sendMessage(TypeJoined, JoinedPayload{
			GameCode: p.GameCode,
			ConnID:   string(c.id),
			Host:     host,
		})

	case TypeInitializeGame:
		var p InitializeGamePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.GameCode == "" {
			c.sendError("initializeGame requires a gameCode")
			return
		}
		c.controller.Initialize(model.GameCode(p.GameCode), c.id, p.NumMatches)

	case TypeCardFlip:
		var p CardFlipPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.GameCode == "" {
			c.sendError("cardFlip requires a gameCode")
			return
		}
		c.controller.Flip(model.GameCode(p.GameCode), c.id, p.Index)

	case TypeWatchGame:
		var p WatchGamePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.GameCode == "" {
			c.sendError("watchGame requires a gameCode")
			return
		}
		code := model.GameCode(p.GameCode)
		c.hub.Subscribe(c, code)

		// Catch the watcher up if the session already exists; an
		// unknown code just means nothing to show yet
		if snap, err := c.controller.Snapshot(code); err == nil {
			c.sendMessage(TypeGameState, snap)
		}

	default:
		c.sendError("unknown message type: " + env.Type)
	}
}

func (c *Client) sendMessage(msgType string, payload any) {
	data, err := Encode(msgType, payload)
	if err != nil {
		c.logger.Error("failed to encode message",
			slog.String("type", msgType),
			slog.String("error", err.Error()),
		)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send dropped, buffer full", slog.String("type", msgType))
	}
}

func (c *Client) sendError(message string) {
	c.sendMessage(TypeErrorMessage, ErrorPayload{Message: message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
