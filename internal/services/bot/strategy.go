package bot

import (
	"fmt"

	"github.com/flipmatch/flipmatch-go/internal/dependencies/random"
	"github.com/flipmatch/flipmatch-go/internal/model"
)

// Strategy defines how a bot picks the next card to flip. Strategies
// run on the client side against the broadcast state; the server treats
// a bot connection like any other participant.
type Strategy interface {
	// ChooseCard selects the index of the next card to flip. Returns
	// false when no card is selectable.
	ChooseCard(snap *model.Snapshot, mem *Memory) (int, bool)
}

// ForName returns the strategy registered under name
func ForName(name string, rnd random.Random) (Strategy, error) {
	switch name {
	case "easy":
		return NewRandomStrategy(rnd), nil
	case "hard":
		return NewRecallStrategy(rnd), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", name)
	}
}

// Memory tracks the faces a bot has legitimately seen flipped. The
// full deck is present in every snapshot, so a fair bot must only act
// on faces it observed face-up.
type Memory struct {
	faces map[int]string
}

// NewMemory creates an empty Memory
func NewMemory() *Memory {
	return &Memory{faces: make(map[int]string)}
}

// Observe records the face of every currently revealed card
func (m *Memory) Observe(snap *model.Snapshot) {
	for _, i := range snap.FlippedCards {
		if i >= 0 && i < len(snap.ShuffledImages) {
			m.faces[i] = snap.ShuffledImages[i]
		}
	}
}

// Face returns the remembered face for index, if seen
func (m *Memory) Face(index int) (string, bool) {
	face, ok := m.faces[index]
	return face, ok
}

// Reset clears the memory for a new round
func (m *Memory) Reset() {
	m.faces = make(map[int]string)
}

// selectable reports whether the card at index can be flipped right now
func selectable(snap *model.Snapshot, index int) bool {
	for _, i := range snap.MatchedCards {
		if i == index {
			return false
		}
	}
	for _, i := range snap.FlippedCards {
		if i == index {
			return false
		}
	}
	return true
}

// selectableIndices lists every card that can be flipped right now
func selectableIndices(snap *model.Snapshot) []int {
	var out []int
	for i := range snap.ShuffledImages {
		if selectable(snap, i) {
			out = append(out, i)
		}
	}
	return out
}
