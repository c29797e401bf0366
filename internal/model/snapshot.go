package model

// PlayerInfo is the roster entry clients render on the scoreboard
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Snapshot is the complete serializable state of a session, sent to the
// joining connection on join and broadcast to the room after every
// accepted transition. Field names match what the clients consume.
type Snapshot struct {
	GameCode           string       `json:"gameCode"`
	NumMatches         int          `json:"numMatches"`
	ShuffledImages     []string     `json:"shuffledImages"`
	FlippedCards       []int        `json:"flippedCards"`
	MatchedCards       []int        `json:"matchedCards"`
	Players            []PlayerInfo `json:"players"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	GameWon            bool         `json:"gameWon"`
}

// Snapshot builds a point-in-time copy of the session. Slices are
// copied and never nil so clients always see arrays, not null.
func (s *Session) Snapshot() *Snapshot {
	deck := make([]string, len(s.Deck))
	copy(deck, s.Deck)
	revealed := make([]int, len(s.Revealed))
	copy(revealed, s.Revealed)
	matched := make([]int, len(s.Matched))
	copy(matched, s.Matched)

	return &Snapshot{
		GameCode:           string(s.Code),
		NumMatches:         s.MatchCount,
		ShuffledImages:     deck,
		FlippedCards:       revealed,
		MatchedCards:       matched,
		Players:            s.Roster(),
		CurrentPlayerIndex: s.TurnIndex,
		GameWon:            s.Completed,
	}
}

// Roster returns the participant list in turn order
func (s *Session) Roster() []PlayerInfo {
	players := make([]PlayerInfo, len(s.Participants))
	for i, p := range s.Participants {
		players[i] = PlayerInfo{
			ID:    string(p.ConnID),
			Name:  p.DisplayName,
			Score: p.Score,
		}
	}
	return players
}
