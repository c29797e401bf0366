package bot

import (
	"github.com/flipmatch/flipmatch-go/internal/dependencies/random"
	"github.com/flipmatch/flipmatch-go/internal/model"
)

// RandomStrategy flips uniformly random selectable cards. This is the
// "easy" difficulty.
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCard picks a random card that is neither matched nor revealed
func (s *RandomStrategy) ChooseCard(snap *model.Snapshot, mem *Memory) (int, bool) {
	candidates := selectableIndices(snap)
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[s.random.Intn(len(candidates))], true
}
