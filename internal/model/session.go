package model

import "time"

// GameCode is a human-readable identifier for joining game sessions
type GameCode string

// ConnID uniquely identifies a live client connection. It is the only
// handle used to authorize moves within a session.
type ConnID string

// SessionState represents the current phase of a session
type SessionState string

const (
	SessionStateLobby      SessionState = "lobby"       // No deck yet / between rounds
	SessionStateInProgress SessionState = "in_progress" // Deck present, round active
	SessionStateCompleted  SessionState = "completed"   // All pairs matched
)

// Session is the authoritative state for one in-progress game, keyed by
// game code. All mutation happens inside the session controller's
// serialized command stream; nothing else may write these fields.
type Session struct {
	Code       GameCode
	MatchCount int

	// Deck is 2×MatchCount symbols, each appearing exactly twice.
	// It never mutates during a round; only the Revealed/Matched views
	// over it change. Empty while in the lobby state.
	Deck []string

	// Revealed holds at most two card indices currently face-up and
	// unmatched, always disjoint from Matched.
	Revealed []int

	// Matched holds card indices permanently face-up. Grows
	// monotonically within a round.
	Matched []int

	// Participants in join order; the order defines turn rotation.
	Participants []Participant

	// TurnIndex is the index into Participants whose move is accepted.
	TurnIndex int

	// Completed is true once every card is matched. Terminal for the
	// round; only Initialize re-enters play.
	Completed bool

	// Epoch increments on every Initialize. A scheduled pair resolution
	// captures the epoch it was created under and skips itself if the
	// round was reset in the meantime.
	Epoch int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State derives the session's lifecycle phase
func (s *Session) State() SessionState {
	switch {
	case len(s.Deck) == 0:
		return SessionStateLobby
	case s.Completed:
		return SessionStateCompleted
	default:
		return SessionStateInProgress
	}
}

// InProgress reports whether flips are currently accepted
func (s *Session) InProgress() bool {
	return s.State() == SessionStateInProgress
}

// ParticipantIndex returns the position of the given connection in the
// turn order, or -1 if it is not a participant
func (s *Session) ParticipantIndex(id ConnID) int {
	for i := range s.Participants {
		if s.Participants[i].ConnID == id {
			return i
		}
	}
	return -1
}

// GetParticipant returns the participant for the given connection, or
// nil if not present
func (s *Session) GetParticipant(id ConnID) *Participant {
	if i := s.ParticipantIndex(id); i >= 0 {
		return &s.Participants[i]
	}
	return nil
}

// IsHost reports whether the given connection is the first participant.
// Host status is derived, never stored, so it cannot drift across
// roster changes.
func (s *Session) IsHost(id ConnID) bool {
	return len(s.Participants) > 0 && s.Participants[0].ConnID == id
}

// ActiveParticipant returns the participant whose turn it is, or nil if
// the roster is empty or TurnIndex is out of range
func (s *Session) ActiveParticipant() *Participant {
	if s.TurnIndex < 0 || s.TurnIndex >= len(s.Participants) {
		return nil
	}
	return &s.Participants[s.TurnIndex]
}

// IsRevealed reports whether the card at index is currently face-up and
// unmatched
func (s *Session) IsRevealed(index int) bool {
	for _, i := range s.Revealed {
		if i == index {
			return true
		}
	}
	return false
}

// IsMatched reports whether the card at index has been paired
func (s *Session) IsMatched(index int) bool {
	for _, i := range s.Matched {
		if i == index {
			return true
		}
	}
	return false
}

// AllMatched reports whether every card in the deck has been paired
func (s *Session) AllMatched() bool {
	return len(s.Deck) > 0 && len(s.Matched) == len(s.Deck)
}
