package agent

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/core"
	"github.com/vovakirdan/tileagent/internal/eval"
)

// Combine selects how a chance node folds its spawn branches.
type Combine string

const (
	// CombineExpectation averages over empty cells, weighting each cell's
	// 2 and 4 outcomes by their spawn probabilities.
	CombineExpectation Combine = "expectation"

	// CombineMaxBranch takes the best probability-weighted single branch.
	CombineMaxBranch Combine = "max-branch"
)

// ExpectimaxOptions configures an Expectimax agent.
type ExpectimaxOptions struct {
	Evaluator  eval.Evaluator
	Depth      int           // Plies of player moves searched; at least 1
	Combine    Combine       // Empty means CombineExpectation
	Workers    int           // Top-level directions searched concurrently; 0 = GOMAXPROCS
	MaxNodes   int64         // Expanded-node limit per decision; 0 = none
	TimeBudget time.Duration // Wall-clock limit per decision; 0 = none
}

// Expectimax alternates max nodes (player moves) with chance nodes (tile
// spawns) down to a fixed depth and scores the frontier with an evaluator.
// It holds no mutable state and is safe for concurrent use.
type Expectimax struct {
	opts ExpectimaxOptions
}

// NewExpectimax validates opts and returns the agent.
func NewExpectimax(opts ExpectimaxOptions) (*Expectimax, error) {
	if opts.Combine == "" {
		opts.Combine = CombineExpectation
	}
	switch {
	case opts.Evaluator == nil:
		return nil, fmt.Errorf("%w: expectimax needs an evaluator", ErrConfiguration)
	case opts.Depth < 1:
		return nil, fmt.Errorf("%w: expectimax depth must be at least 1, got %d", ErrConfiguration, opts.Depth)
	case opts.Combine != CombineExpectation && opts.Combine != CombineMaxBranch:
		return nil, fmt.Errorf("%w: unknown combine rule %q", ErrConfiguration, opts.Combine)
	case opts.Workers < 0:
		return nil, fmt.Errorf("%w: workers %d is negative", ErrConfiguration, opts.Workers)
	case opts.MaxNodes < 0:
		return nil, fmt.Errorf("%w: max nodes %d is negative", ErrConfiguration, opts.MaxNodes)
	case opts.TimeBudget < 0:
		return nil, fmt.Errorf("%w: time budget %s is negative", ErrConfiguration, opts.TimeBudget)
	}
	return &Expectimax{opts: opts}, nil
}

// Name implements registry.Agent.
func (e *Expectimax) Name() string {
	return fmt.Sprintf("expectimax(depth=%d, combine=%s)", e.opts.Depth, e.opts.Combine)
}

// ChooseMove implements registry.Agent.
func (e *Expectimax) ChooseMove(ctx context.Context, s *board.State) core.Decision {
	start := time.Now()
	if e.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.TimeBudget)
		defer cancel()
	}

	sr := &search{
		ev:       e.opts.Evaluator,
		combine:  e.opts.Combine,
		maxNodes: e.opts.MaxNodes,
		done:     ctx.Done(),
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
	case 1:
		// Nothing to compare; skip the search.
		scores[0].Value = sr.leaf(posts[0])
	default:
		var g errgroup.Group
		g.SetLimit(resolveWorkers(e.opts.Workers, len(moves)))
		for i := range moves {
			g.Go(func() error {
				scores[i].Value = sr.chanceNode(posts[i], e.opts.Depth)
				return nil
			})
		}
		_ = g.Wait()
	}

	return core.NewDecision(scores, sr.stats(time.Since(start)))
}

// search carries the per-decision budget and counters shared by the
// goroutines of one ChooseMove call.
type search struct {
	ev       eval.Evaluator
	combine  Combine
	maxNodes int64
	done     <-chan struct{}

	leaves    atomic.Int64
	nodes     atomic.Int64
	truncated atomic.Bool
}

func (sr *search) stats(elapsed time.Duration) core.Stats {
	return core.Stats{
		LeafEvaluations: sr.leaves.Load(),
		NodesExpanded:   sr.nodes.Load(),
		Elapsed:         elapsed,
		Truncated:       sr.truncated.Load(),
	}
}

func (sr *search) leaf(s *board.State) float64 {
	sr.leaves.Add(1)
	return sr.ev.Evaluate(s)
}

// expand reports whether another node may be expanded and counts it.
func (sr *search) expand() bool {
	if sr.truncated.Load() {
		return false
	}
	select {
	case <-sr.done:
		sr.truncated.Store(true)
		return false
	default:
	}
	if n := sr.nodes.Add(1); sr.maxNodes > 0 && n > sr.maxNodes {
		sr.nodes.Add(-1)
		sr.truncated.Store(true)
		return false
	}
	return true
}

// maxNode scores a position where the player is to move with depth plies left.
func (sr *search) maxNode(s *board.State, depth int) float64 {
	if depth == 0 || !s.IsAbleToMove() || !sr.expand() {
		return sr.leaf(s)
	}

	best := math.Inf(-1)
	for _, d := range board.SearchOrder {
		if !s.CanMove(d) {
			continue
		}
		post, _ := s.Transition(d)
		if v := sr.chanceNode(post, depth); v > best {
			best = v
		}
	}
	return best
}

// chanceNode scores a post-move position over every spawn on its empty cells,
// continuing with depth-1 plies after the spawn.
func (sr *search) chanceNode(post *board.State, depth int) float64 {
	cells := post.EmptyCells()
	if len(cells) == 0 || !sr.expand() {
		return sr.leaf(post)
	}

	child := post.Clone()
	total := 0.0
	best := math.Inf(-1)
	for _, c := range cells {
		for _, o := range board.SpawnOutcomes {
			child.CopyFrom(post)
			if err := child.PlaceTile(c, o.Value); err != nil {
				continue
			}
			v := o.Prob * sr.maxNode(child, depth-1)
			total += v
			if v > best {
				best = v
			}
		}
	}

	if sr.combine == CombineMaxBranch {
		return best
	}
	return total / float64(len(cells))
}
