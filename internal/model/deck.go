package model

// CardPalette is the fixed set of symbols decks are built from. A deck
// takes the first MatchCount symbols and duplicates each once.
var CardPalette = []string{
	"🍎", "🍌", "🍇", "🍓",
	"🍒", "🍍", "🥝", "🍉",
	"🍋", "🍑", "🍏", "🍈",
	"🍔", "🍕", "🍩", "🍪",
}

// DefaultMatchCount is the number of pairs used when a client does not
// ask for a specific count
const DefaultMatchCount = 8

// ClampMatchCount bounds a requested pair count to what the palette can
// supply
func ClampMatchCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > len(CardPalette) {
		return len(CardPalette)
	}
	return n
}
