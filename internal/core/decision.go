package core

import (
	"time"

	"github.com/vovakirdan/tileagent/internal/board"
)

// MoveScore is the value an agent assigned to one legal direction.
type MoveScore struct {
	Direction board.Direction `json:"direction" yaml:"direction"`
	Value     float64         `json:"value" yaml:"value"`
}

// Decision is returned by Agent.ChooseMove.
// OK is false when the position has no legal move; Direction is then
// meaningless.
type Decision struct {
	Direction board.Direction
	OK        bool
	Value     float64     // Value of the chosen direction
	Scores    []MoveScore // Per-direction values in board.SearchOrder
	Stats     Stats
}

// Stats collects search counters for one decision.
type Stats struct {
	LeafEvaluations int64         `json:"leaf_evaluations" yaml:"leaf_evaluations"` // Heuristic calls
	NodesExpanded   int64         `json:"nodes_expanded" yaml:"nodes_expanded"`     // Decision or chance nodes expanded
	Rollouts        int64         `json:"rollouts" yaml:"rollouts"`                 // Completed Monte Carlo rollouts
	Elapsed         time.Duration `json:"elapsed" yaml:"elapsed"`                   // Wall time spent deciding
	Truncated       bool          `json:"truncated" yaml:"truncated"`               // Search stopped early on budget or node limit
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.LeafEvaluations += o.LeafEvaluations
	s.NodesExpanded += o.NodesExpanded
	s.Rollouts += o.Rollouts
	s.Elapsed += o.Elapsed
	s.Truncated = s.Truncated || o.Truncated
}

// Best picks the highest-valued entry of scores, earliest entry winning
// ties. It reports false when scores is empty.
func Best(scores []MoveScore) (MoveScore, bool) {
	if len(scores) == 0 {
		return MoveScore{}, false
	}
	best := scores[0]
	for _, sc := range scores[1:] {
		if sc.Value > best.Value {
			best = sc
		}
	}
	return best, true
}

// NewDecision builds a decision from per-direction scores listed in
// board.SearchOrder.
func NewDecision(scores []MoveScore, stats Stats) Decision {
	best, ok := Best(scores)
	return Decision{
		Direction: best.Direction,
		OK:        ok,
		Value:     best.Value,
		Scores:    scores,
		Stats:     stats,
	}
}
