package bot

import (
	"github.com/flipmatch/flipmatch-go/internal/dependencies/random"
	"github.com/flipmatch/flipmatch-go/internal/model"
)

// RecallStrategy plays like a person with perfect recall of every face
// it has seen flipped. This is the "hard" difficulty.
//
// With no card pending it plays a remembered pair when it knows one,
// otherwise it explores an unseen card. With one card pending it plays
// the remembered partner of the revealed face when it knows one.
type RecallStrategy struct {
	random random.Random
}

// NewRecallStrategy creates a new RecallStrategy
func NewRecallStrategy(rnd random.Random) *RecallStrategy {
	return &RecallStrategy{random: rnd}
}

// ChooseCard selects the next card using the bot's memory of seen faces
func (s *RecallStrategy) ChooseCard(snap *model.Snapshot, mem *Memory) (int, bool) {
	if len(snap.FlippedCards) == 1 {
		first := snap.FlippedCards[0]
		if face, ok := mem.Face(first); ok {
			if partner, ok := s.rememberedPartner(snap, mem, face, first); ok {
				return partner, true
			}
		}
		return s.explore(snap, mem)
	}

	// Open with the first card of a known pair; the partner comes from
	// memory on the next call
	if first, ok := s.rememberedPair(snap, mem); ok {
		return first, true
	}
	return s.explore(snap, mem)
}

// rememberedPartner finds a selectable index other than exclude whose
// remembered face equals face
func (s *RecallStrategy) rememberedPartner(snap *model.Snapshot, mem *Memory, face string, exclude int) (int, bool) {
	for i := range snap.ShuffledImages {
		if i == exclude || !selectable(snap, i) {
			continue
		}
		if seen, ok := mem.Face(i); ok && seen == face {
			return i, true
		}
	}
	return 0, false
}

// rememberedPair finds the lower index of two selectable cards
// remembered with the same face
func (s *RecallStrategy) rememberedPair(snap *model.Snapshot, mem *Memory) (int, bool) {
	byFace := make(map[string]int)
	for i := range snap.ShuffledImages {
		if !selectable(snap, i) {
			continue
		}
		face, ok := mem.Face(i)
		if !ok {
			continue
		}
		if j, ok := byFace[face]; ok {
			return j, true
		}
		byFace[face] = i
	}
	return 0, false
}

// explore picks a random selectable card, preferring ones never seen
func (s *RecallStrategy) explore(snap *model.Snapshot, mem *Memory) (int, bool) {
	var unseen []int
	for _, i := range selectableIndices(snap) {
		if _, ok := mem.Face(i); !ok {
			unseen = append(unseen, i)
		}
	}
	if len(unseen) > 0 {
		return unseen[s.random.Intn(len(unseen))], true
	}

	candidates := selectableIndices(snap)
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[s.random.Intn(len(candidates))], true
}
