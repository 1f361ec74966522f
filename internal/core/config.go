// Package core provides the runtime types shared by agents, the game loop and
// the CLI: seeding, decisions and search statistics. It depends only on the
// board package.
package core

import (
	"math/rand/v2"
	"time"
)

// Entropy streams. A single seed feeds independent PCG streams so the board
// spawner and an agent never draw from the same sequence.
const (
	StreamBoard uint64 = 1 // Tile spawns in the game loop
	StreamAgent uint64 = 2 // Agent move choice and rollout seeds
)

// RuntimeConfig contains configuration passed to agents at construction.
type RuntimeConfig struct {
	Seed int64 // RNG seed for reproducible play; 0 means use current time
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed: 0, // 0 means use current time in the CLI layer
	}
}

// ResolveSeed returns seed, or a time-derived seed when seed is 0.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// NewRand returns a PCG-backed source for the given seed and stream.
func NewRand(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}
