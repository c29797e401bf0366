package ws

import (
	"encoding/json"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

// Inbound message types
const (
	TypeJoinGame       = "joinGame"
	TypeInitializeGame = "initializeGame"
	TypeCardFlip       = "cardFlip"
	TypeWatchGame      = "watchGame"
)

// Outbound message types
const (
	TypeGameState    = "gameState"
	TypePlayerJoined = "playerJoined"
	TypeErrorMessage = "errorMessage"
	TypeJoined       = "joined"
)

// Envelope is the frame every message travels in. The payload is
// decoded lazily so a bad payload for one type never breaks the others.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JoinGamePayload asks to join (and lazily create) the session for a code
type JoinGamePayload struct {
	GameCode string `json:"gameCode"`
	Name     string `json:"name"`
}

// InitializeGamePayload starts or restarts a round
type InitializeGamePayload struct {
	GameCode   string `json:"gameCode"`
	NumMatches int    `json:"numMatches"`
}

// CardFlipPayload reveals one card
type CardFlipPayload struct {
	GameCode string `json:"gameCode"`
	Index    int    `json:"index"`
}

// WatchGamePayload subscribes to a session's broadcasts without
// taking a seat in it
type WatchGamePayload struct {
	GameCode string `json:"gameCode"`
}

// JoinedPayload acknowledges a join to the joining connection alone.
// ConnID is how the session roster identifies this connection, so the
// client can tell when it holds the turn.
type JoinedPayload struct {
	GameCode string `json:"gameCode"`
	ConnID   string `json:"connId"`
	Host     bool   `json:"host"`
}

// ErrorPayload reports a structurally malformed command to its sender.
// Stale-but-well-formed commands never produce one.
type ErrorPayload struct {
	Message string `json:"message"`
}

// RosterPayload carries the participant list for playerJoined
type RosterPayload struct {
	GameCode string             `json:"gameCode"`
	Players  []model.PlayerInfo `json:"players"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode frames a payload into an envelope ready for the wire
func Encode(msgType string, payload any) ([]byte, error) {
	return json.Marshal(outbound{Type: msgType, Payload: payload})
}
