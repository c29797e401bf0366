package cli

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/ws"
)

// GameConn speaks the game's WebSocket protocol
type GameConn struct {
	conn *websocket.Conn
}

// DialGame connects to the server's WebSocket endpoint
func DialGame(url string) (*GameConn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &GameConn{conn: conn}, nil
}

// Close closes the connection
func (g *GameConn) Close() error {
	return g.conn.Close()
}

// Send frames and writes one command
func (g *GameConn) Send(msgType string, payload any) error {
	data, err := ws.Encode(msgType, payload)
	if err != nil {
		return err
	}
	return g.conn.WriteMessage(websocket.TextMessage, data)
}

// Event is one decoded server message
type Event struct {
	Type     string
	Snapshot *model.Snapshot
	Roster   *ws.RosterPayload
	Joined   *ws.JoinedPayload
	Error    *ws.ErrorPayload
}

// ReadEvent blocks until the next server message arrives and decodes it
func (g *GameConn) ReadEvent() (*Event, error) {
	_, data, err := g.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env ws.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse server message: %w", err)
	}

	event := &Event{Type: env.Type}
	switch env.Type {
	case ws.TypeGameState:
		event.Snapshot = &model.Snapshot{}
		err = json.Unmarshal(env.Payload, event.Snapshot)
	case ws.TypePlayerJoined:
		event.Roster = &ws.RosterPayload{}
		err = json.Unmarshal(env.Payload, event.Roster)
	case ws.TypeJoined:
		event.Joined = &ws.JoinedPayload{}
		err = json.Unmarshal(env.Payload, event.Joined)
	case ws.TypeErrorMessage:
		event.Error = &ws.ErrorPayload{}
		err = json.Unmarshal(env.Payload, event.Error)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", env.Type, err)
	}
	return event, nil
}
