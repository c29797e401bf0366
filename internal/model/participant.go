package model

import "time"

// DefaultDisplayName substitutes for a missing join name; joins are
// never rejected over a name.
const DefaultDisplayName = "Player"

// Participant is one connected seat within a session. It is owned
// exclusively by its session: created on join, removed on disconnect,
// score mutated only by the session's match resolution.
type Participant struct {
	ConnID      ConnID
	DisplayName string
	Score       int
	JoinedAt    time.Time
}
