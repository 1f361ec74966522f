package agent

import (
	"math"
	"math/rand/v2"

	"github.com/vovakirdan/tileagent/internal/board"
)

// searchNode is one position in a tree rollout. Nodes live in an arena and
// refer to their parent by index; state is released once expanded.
type searchNode struct {
	state  *board.State
	depth  int
	parent int // -1 for the root
	best   float64
}

// tree expands every legal move from post down to r.depth plies, spawning
// one random tile per child, and returns the best frontier value. The tree
// is walked depth-first from an explicit stack; leaf values are pushed up
// the parent chain while they improve on an ancestor.
func (r *roller) tree(post *board.State, rng *rand.Rand) float64 {
	arena := append(r.arena[:0], searchNode{state: post, parent: -1, best: math.Inf(-1)})
	stack := append(r.stack[:0], 0)

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := arena[i].state
		arena[i].state = nil

		if arena[i].depth == r.depth || !s.IsAbleToMove() {
			r.stats.leaves.Add(1)
			propagate(arena, i, r.ev.Evaluate(s))
			continue
		}

		r.stats.nodes.Add(1)
		for _, d := range board.SearchOrder {
			if !s.CanMove(d) {
				continue
			}
			child, _ := s.Transition(d)
			if !child.IsDead() {
				_, _, _ = child.AddRandomTile(rng)
			}
			arena = append(arena, searchNode{
				state:  child,
				depth:  arena[i].depth + 1,
				parent: i,
				best:   math.Inf(-1),
			})
			stack = append(stack, len(arena)-1)
		}
	}

	r.arena, r.stack = arena, stack
	return arena[0].best
}

// propagate raises best from node i toward the root until an ancestor
// already holds at least v.
func propagate(arena []searchNode, i int, v float64) {
	for j := i; j >= 0 && v > arena[j].best; j = arena[j].parent {
		arena[j].best = v
	}
}
