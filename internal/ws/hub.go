package ws

import (
	"log/slog"
	"sync"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

// Hub tracks which connections are subscribed to which game code and
// fans broadcasts out to them. It implements session.Notifier.
//
// Sends are non-blocking: a client whose buffer is full misses the
// message rather than stalling the broadcast, since the next snapshot
// supersedes it anyway.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[model.GameCode]map[*Client]bool
	logger *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[model.GameCode]map[*Client]bool),
		logger: logger.With(slog.String("component", "ws-hub")),
	}
}

// Subscribe adds a client to the room for code
func (h *Hub) Subscribe(client *Client, code model.GameCode) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[code] == nil {
		h.rooms[code] = make(map[*Client]bool)
	}
	h.rooms[code][client] = true

	h.logger.Info("client subscribed",
		slog.String("game_code", string(code)),
		slog.String("conn_id", string(client.ID())),
		slog.Int("room_size", len(h.rooms[code])),
	)
}

// RemoveClient drops a client from every room it is subscribed to
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for code, room := range h.rooms {
		if room[client] {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, code)
			}
		}
	}
}

// GameState broadcasts a session snapshot to every connection in the room
func (h *Hub) GameState(code model.GameCode, snap *model.Snapshot) {
	h.broadcast(code, TypeGameState, snap)
}

// PlayerJoined broadcasts the updated roster to every connection in the room
func (h *Hub) PlayerJoined(code model.GameCode, roster []model.PlayerInfo) {
	h.broadcast(code, TypePlayerJoined, RosterPayload{
		GameCode: string(code),
		Players:  roster,
	})
}

// RoomSize returns the number of connections subscribed to code
func (h *Hub) RoomSize(code model.GameCode) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

func (h *Hub) broadcast(code model.GameCode, msgType string, payload any) {
	data, err := Encode(msgType, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("game_code", string(code)),
			slog.String("type", msgType),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[code] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("broadcast dropped, client buffer full",
				slog.String("game_code", string(code)),
				slog.String("conn_id", string(client.ID())),
			)
		}
	}
}
