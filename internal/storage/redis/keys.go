package redis

import "fmt"

// Key prefix for all game-related data
const keyPrefix = "flipmatch"

// scoresKey returns the Redis key for the high-score sorted set
func scoresKey() string {
	return fmt.Sprintf("%s:scores", keyPrefix)
}

// summariesKey returns the Redis key for the completed-game list
func summariesKey() string {
	return fmt.Sprintf("%s:games", keyPrefix)
}
