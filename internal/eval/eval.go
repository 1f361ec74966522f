// Package eval holds value functions that score a board position for the
// search agents. Higher is better.
package eval

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/tileagent/internal/board"
)

// Evaluator scores a board. Implementations must be deterministic and safe
// for concurrent use on distinct states.
type Evaluator interface {
	Evaluate(s *board.State) float64
}

// Func adapts a plain function to Evaluator.
type Func func(s *board.State) float64

// Evaluate calls f(s).
func (f Func) Evaluate(s *board.State) float64 {
	return f(s)
}

// Default is the value function used when none is configured.
const Default = "merges"

var builtin = map[string]Evaluator{
	"merges":   Func(Merges),
	"corner":   Func(Corner),
	"score":    Func(Score),
	"density":  Func(Density),
	"adjacent": Func(Adjacent),
}

// ByName returns the built-in evaluator registered under name.
func ByName(name string) (Evaluator, error) {
	ev, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("eval: unknown value function %q (available: %v)", name, Names())
	}
	return ev, nil
}

// Names returns the built-in evaluator names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
