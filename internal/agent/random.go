package agent

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/core"
)

// Random picks a uniformly random legal move. It is the baseline other
// agents are benchmarked against.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random agent seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: core.NewRand(seed, core.StreamAgent)}
}

// Name implements registry.Agent.
func (a *Random) Name() string {
	return "random"
}

// ChooseMove implements registry.Agent.
func (a *Random) ChooseMove(_ context.Context, s *board.State) core.Decision {
	start := time.Now()
	moves := s.ValidMoves()
	if len(moves) == 0 {
		return core.Decision{Stats: core.Stats{Elapsed: time.Since(start)}}
	}

	a.mu.Lock()
	d := moves[a.rng.IntN(len(moves))]
	a.mu.Unlock()

	return core.Decision{
		Direction: d,
		OK:        true,
		Stats:     core.Stats{Elapsed: time.Since(start)},
	}
}
