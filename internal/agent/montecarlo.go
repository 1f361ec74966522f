package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/core"
	"github.com/vovakirdan/tileagent/internal/eval"
)

// Policy selects how a single rollout is played.
type Policy string

const (
	// PolicyRandom plays uniformly random legal moves with random spawns
	// until no move is legal or the depth bound is reached.
	PolicyRandom Policy = "random"

	// PolicyTree expands every legal move to a fixed depth, one random
	// spawn per child, and keeps the best frontier value.
	PolicyTree Policy = "tree"
)

// MonteCarloOptions configures a MonteCarlo agent.
type MonteCarloOptions struct {
	Evaluator   eval.Evaluator
	Repetitions int           // Rollouts per legal direction; at least 1
	Depth       int           // Rollout move bound; 0 = until no move is legal (random policy only)
	Policy      Policy        // Empty means PolicyRandom
	Workers     int           // Concurrent rollout workers; 0 = GOMAXPROCS
	TimeBudget  time.Duration // Wall-clock limit per decision; 0 = none
	Seed        int64
}

// MonteCarlo scores each legal direction by the average evaluator value of
// independent rollouts from the post-move position.
//
// Every rollout draws from its own PCG stream seeded from the agent's source
// before any work starts, so a seeded agent makes the same decisions for any
// worker count.
type MonteCarlo struct {
	opts MonteCarloOptions

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMonteCarlo validates opts and returns the agent.
func NewMonteCarlo(opts MonteCarloOptions) (*MonteCarlo, error) {
	if opts.Policy == "" {
		opts.Policy = PolicyRandom
	}
	switch {
	case opts.Evaluator == nil:
		return nil, fmt.Errorf("%w: monte carlo needs an evaluator", ErrConfiguration)
	case opts.Repetitions < 1:
		return nil, fmt.Errorf("%w: repetitions must be at least 1, got %d", ErrConfiguration, opts.Repetitions)
	case opts.Depth < 0:
		return nil, fmt.Errorf("%w: rollout depth %d is negative", ErrConfiguration, opts.Depth)
	case opts.Policy != PolicyRandom && opts.Policy != PolicyTree:
		return nil, fmt.Errorf("%w: unknown rollout policy %q", ErrConfiguration, opts.Policy)
	case opts.Policy == PolicyTree && opts.Depth < 1:
		return nil, fmt.Errorf("%w: tree policy needs depth of at least 1", ErrConfiguration)
	case opts.Workers < 0:
		return nil, fmt.Errorf("%w: workers %d is negative", ErrConfiguration, opts.Workers)
	case opts.TimeBudget < 0:
		return nil, fmt.Errorf("%w: time budget %s is negative", ErrConfiguration, opts.TimeBudget)
	}
	return &MonteCarlo{
		opts: opts,
		rng:  core.NewRand(opts.Seed, core.StreamAgent),
	}, nil
}

// Name implements registry.Agent.
func (m *MonteCarlo) Name() string {
	return fmt.Sprintf("montecarlo(policy=%s, reps=%d, depth=%d)", m.opts.Policy, m.opts.Repetitions, m.opts.Depth)
}

// rolloutJob is one rollout of one direction.
type rolloutJob struct {
	move  int // index into the legal moves
	seed1 uint64
	seed2 uint64
}

// ChooseMove implements registry.Agent.
func (m *MonteCarlo) ChooseMove(ctx context.Context, s *board.State) core.Decision {
	start := time.Now()
	if m.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.TimeBudget)
		defer cancel()
	}

	moves := s.ValidMoves()
	scores := make([]core.MoveScore, len(moves))
	posts := make([]*board.State, len(moves))
	for i, d := range moves {
		posts[i], _ = s.Transition(d)
		scores[i].Direction = d
	}
	switch len(moves) {
	case 0:
		return core.NewDecision(nil, core.Stats{Elapsed: time.Since(start)})
	case 1:
		// Nothing to compare; skip the rollouts.
		scores[0].Value = m.opts.Evaluator.Evaluate(posts[0])
		return core.NewDecision(scores, core.Stats{LeafEvaluations: 1, Elapsed: time.Since(start)})
	}

	reps := m.opts.Repetitions
	jobs := make([]rolloutJob, len(moves)*reps)
	m.mu.Lock()
	for i := range jobs {
		jobs[i] = rolloutJob{move: i / reps, seed1: m.rng.Uint64(), seed2: m.rng.Uint64()}
	}
	m.mu.Unlock()

	values := make([]float64, len(jobs))
	done := make([]bool, len(jobs))
	var (
		stats     rolloutStats
		truncated atomic.Bool
	)

	workers := resolveWorkers(m.opts.Workers, len(jobs))
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			r := newRoller(m.opts, &stats)
			for j := w; j < len(jobs); j += workers {
				if ctx.Err() != nil {
					truncated.Store(true)
					return nil
				}
				job := jobs[j]
				rng := rand.New(rand.NewPCG(job.seed1, job.seed2))
				values[j] = r.roll(posts[job.move], rng)
				done[j] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	// Sum in job order so the averages do not depend on scheduling.
	for i := range moves {
		total, n := 0.0, 0
		for j := i * reps; j < (i+1)*reps; j++ {
			if done[j] {
				total += values[j]
				n++
			}
		}
		if n == 0 {
			stats.leaves.Add(1)
			scores[i].Value = m.opts.Evaluator.Evaluate(posts[i])
			continue
		}
		scores[i].Value = total / float64(n)
	}

	return core.NewDecision(scores, core.Stats{
		LeafEvaluations: stats.leaves.Load(),
		NodesExpanded:   stats.nodes.Load(),
		Rollouts:        stats.rollouts.Load(),
		Elapsed:         time.Since(start),
		Truncated:       truncated.Load(),
	})
}

type rolloutStats struct {
	leaves   atomic.Int64
	nodes    atomic.Int64
	rollouts atomic.Int64
}

// roller plays rollouts for one worker, reusing its scratch storage.
type roller struct {
	ev     eval.Evaluator
	depth  int
	policy Policy
	stats  *rolloutStats

	scratch *board.State
	moves   []board.Direction
	arena   []searchNode
	stack   []int
}

func newRoller(opts MonteCarloOptions, stats *rolloutStats) *roller {
	return &roller{
		ev:     opts.Evaluator,
		depth:  opts.Depth,
		policy: opts.Policy,
		stats:  stats,
		moves:  make([]board.Direction, 0, 4),
	}
}

func (r *roller) roll(post *board.State, rng *rand.Rand) float64 {
	var v float64
	if r.policy == PolicyTree {
		v = r.tree(post, rng)
	} else {
		v = r.random(post, rng)
	}
	r.stats.rollouts.Add(1)
	return v
}

// random plays random legal moves on a scratch copy of post.
func (r *roller) random(post *board.State, rng *rand.Rand) float64 {
	if r.scratch == nil {
		r.scratch = post.Clone()
	} else {
		r.scratch.CopyFrom(post)
	}
	s := r.scratch

	for steps := 0; r.depth == 0 || steps < r.depth; steps++ {
		r.moves = s.AppendValidMoves(r.moves[:0])
		if len(r.moves) == 0 {
			break
		}
		s.TransitionInPlace(r.moves[rng.IntN(len(r.moves))])
		if !s.IsDead() {
			// Cannot fail: the board has an empty cell.
			_, _, _ = s.AddRandomTile(rng)
		}
	}

	r.stats.leaves.Add(1)
	return r.ev.Evaluate(s)
}
