package agent

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/config"
	"github.com/vovakirdan/tileagent/internal/core"
	"github.com/vovakirdan/tileagent/internal/eval"
	"github.com/vovakirdan/tileagent/internal/registry"
)

func mustGrid(t *testing.T, grid [][]int) *board.State {
	t.Helper()
	s, err := board.FromGrid(grid)
	if err != nil {
		t.Fatalf("FromGrid(%v) failed: %v", grid, err)
	}
	return s
}

// onlyUp has a single legal direction: UP.
func onlyUp(t *testing.T) *board.State {
	return mustGrid(t, [][]int{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
}

// locked is full with no equal neighbours.
func locked(t *testing.T) *board.State {
	return mustGrid(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
}

// midgame is an arbitrary position with several legal moves.
func midgame(t *testing.T) *board.State {
	return mustGrid(t, [][]int{
		{4, 2, 8, 2},
		{2, 16, 0, 4},
		{0, 2, 4, 0},
		{0, 0, 2, 0},
	})
}

func newAgents(t *testing.T) map[string]registry.Agent {
	t.Helper()
	ex, err := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Merges), Depth: 2})
	if err != nil {
		t.Fatalf("NewExpectimax() failed: %v", err)
	}
	mc, err := NewMonteCarlo(MonteCarloOptions{Evaluator: eval.Func(eval.Score), Repetitions: 5, Depth: 10, Seed: 1})
	if err != nil {
		t.Fatalf("NewMonteCarlo() failed: %v", err)
	}
	tree, err := NewMonteCarlo(MonteCarloOptions{Evaluator: eval.Func(eval.Merges), Repetitions: 3, Depth: 2, Policy: PolicyTree, Seed: 1})
	if err != nil {
		t.Fatalf("NewMonteCarlo(tree) failed: %v", err)
	}
	return map[string]registry.Agent{
		"expectimax": ex,
		"montecarlo": mc,
		"tree":       tree,
		"random":     NewRandom(1),
	}
}

func TestSingleLegalMove(t *testing.T) {
	for name, a := range newAgents(t) {
		t.Run(name, func(t *testing.T) {
			d := a.ChooseMove(context.Background(), onlyUp(t))
			if !d.OK || d.Direction != board.DirUp {
				t.Errorf("ChooseMove() = %s (ok=%v), want UP", d.Direction, d.OK)
			}
		})
	}

	for _, depth := range []int{1, 3, 5} {
		ex, _ := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Corner), Depth: depth})
		if d := ex.ChooseMove(context.Background(), onlyUp(t)); d.Direction != board.DirUp {
			t.Errorf("depth %d: ChooseMove() = %s, want UP", depth, d.Direction)
		}
	}
}

func TestNoLegalMove(t *testing.T) {
	for name, a := range newAgents(t) {
		t.Run(name, func(t *testing.T) {
			if d := a.ChooseMove(context.Background(), locked(t)); d.OK {
				t.Errorf("ChooseMove() on a locked board returned %s", d.Direction)
			}
		})
	}
}

func TestInputNotMutated(t *testing.T) {
	for name, a := range newAgents(t) {
		t.Run(name, func(t *testing.T) {
			s := midgame(t)
			grid, score, merges := s.Grid(), s.Score(), s.Merges()
			moves := s.ValidMoves()

			d := a.ChooseMove(context.Background(), s)
			if !d.OK || !s.CanMove(d.Direction) {
				t.Fatalf("ChooseMove() = %s (ok=%v), not a legal move", d.Direction, d.OK)
			}
			if !reflect.DeepEqual(s.Grid(), grid) || s.Score() != score || s.Merges() != merges {
				t.Error("ChooseMove() modified its input")
			}
			if !reflect.DeepEqual(s.ValidMoves(), moves) {
				t.Error("ChooseMove() changed the legal-move cache")
			}
		})
	}
}

func TestExpectimaxPrefersMerge(t *testing.T) {
	s := mustGrid(t, [][]int{
		{2, 2, 0, 0},
		{4, 8, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	tests := []struct {
		combine Combine
		value   float64
	}{
		{CombineExpectation, 1},
		{CombineMaxBranch, 0.9},
	}

	for _, tt := range tests {
		t.Run(string(tt.combine), func(t *testing.T) {
			ex, err := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Merges), Depth: 1, Combine: tt.combine})
			if err != nil {
				t.Fatalf("NewExpectimax() failed: %v", err)
			}
			d := ex.ChooseMove(context.Background(), s)
			// LEFT and RIGHT both merge; LEFT comes first in SearchOrder.
			if d.Direction != board.DirLeft {
				t.Errorf("Direction = %s, want LEFT (scores %v)", d.Direction, d.Scores)
			}
			if math.Abs(d.Value-tt.value) > 1e-9 {
				t.Errorf("Value = %v, want %v", d.Value, tt.value)
			}
		})
	}
}

func TestExpectimaxCountsLeaves(t *testing.T) {
	// UP and RIGHT are legal; each post-move board has 3 empty cells,
	// giving 6 spawn branches per direction at depth 1.
	s := mustGrid(t, [][]int{
		{2, 0},
		{0, 0},
	})
	ex, _ := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Merges), Depth: 1})

	d := ex.ChooseMove(context.Background(), s)
	if d.Stats.LeafEvaluations != 12 {
		t.Errorf("LeafEvaluations = %d, want 12", d.Stats.LeafEvaluations)
	}
	if d.Stats.NodesExpanded != 2 {
		t.Errorf("NodesExpanded = %d, want 2", d.Stats.NodesExpanded)
	}
	if d.Direction != board.DirRight {
		t.Errorf("Direction = %s, want RIGHT on a tie", d.Direction)
	}
	if d.Stats.Truncated {
		t.Error("unbounded search reported truncation")
	}
}

func TestExpectimaxWorkersAgree(t *testing.T) {
	s := midgame(t)
	var decisions []core.Decision
	for _, workers := range []int{1, 4} {
		ex, _ := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Corner), Depth: 2, Workers: workers})
		decisions = append(decisions, ex.ChooseMove(context.Background(), s))
	}
	if !reflect.DeepEqual(decisions[0].Scores, decisions[1].Scores) {
		t.Errorf("scores differ across worker counts:\n%v\n%v", decisions[0].Scores, decisions[1].Scores)
	}
	if decisions[0].Stats.LeafEvaluations != decisions[1].Stats.LeafEvaluations {
		t.Error("leaf counts differ across worker counts")
	}
}

func TestExpectimaxNodeLimit(t *testing.T) {
	ex, _ := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Merges), Depth: 3, MaxNodes: 1})
	d := ex.ChooseMove(context.Background(), midgame(t))

	if !d.OK {
		t.Fatal("truncated search should still choose a move")
	}
	if !d.Stats.Truncated {
		t.Error("Truncated = false with a node limit of 1")
	}
	if d.Stats.NodesExpanded > 1 {
		t.Errorf("NodesExpanded = %d, want at most 1", d.Stats.NodesExpanded)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex, _ := NewExpectimax(ExpectimaxOptions{Evaluator: eval.Func(eval.Merges), Depth: 4})
	mc, _ := NewMonteCarlo(MonteCarloOptions{Evaluator: eval.Func(eval.Score), Repetitions: 50, Seed: 3})

	for name, a := range map[string]registry.Agent{"expectimax": ex, "montecarlo": mc} {
		t.Run(name, func(t *testing.T) {
			s := midgame(t)
			d := a.ChooseMove(ctx, s)
			if !d.OK || !s.CanMove(d.Direction) {
				t.Errorf("ChooseMove() = %s (ok=%v), want a legal move", d.Direction, d.OK)
			}
			if !d.Stats.Truncated {
				t.Error("Truncated = false under a cancelled context")
			}
		})
	}
}

func TestMonteCarloDeterministicAcrossWorkers(t *testing.T) {
	for _, policy := range []Policy{PolicyRandom, PolicyTree} {
		t.Run(string(policy), func(t *testing.T) {
			var decisions []core.Decision
			for _, workers := range []int{1, 4} {
				mc, err := NewMonteCarlo(MonteCarloOptions{
					Evaluator:   eval.Func(eval.Score),
					Repetitions: 8,
					Depth:       3,
					Policy:      policy,
					Workers:     workers,
					Seed:        42,
				})
				if err != nil {
					t.Fatalf("NewMonteCarlo() failed: %v", err)
				}
				decisions = append(decisions, mc.ChooseMove(context.Background(), midgame(t)))
			}

			a, b := decisions[0], decisions[1]
			if a.Direction != b.Direction || !reflect.DeepEqual(a.Scores, b.Scores) {
				t.Errorf("workers 1 and 4 disagree:\n%v\n%v", a.Scores, b.Scores)
			}
			if a.Stats.Rollouts != b.Stats.Rollouts || a.Stats.Rollouts != int64(8*len(a.Scores)) {
				t.Errorf("rollouts = %d and %d, want %d", a.Stats.Rollouts, b.Stats.Rollouts, 8*len(a.Scores))
			}
		})
	}
}

func TestMonteCarloSeedReplays(t *testing.T) {
	run := func() []core.Decision {
		mc, _ := NewMonteCarlo(MonteCarloOptions{Evaluator: eval.Func(eval.Merges), Repetitions: 4, Seed: 7})
		var out []core.Decision
		for range 3 {
			out = append(out, mc.ChooseMove(context.Background(), midgame(t)))
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if !reflect.DeepEqual(first[i].Scores, second[i].Scores) {
			t.Fatalf("call %d differs between identically seeded agents", i)
		}
	}
}

func TestMonteCarloConcurrentCalls(t *testing.T) {
	mc, _ := NewMonteCarlo(MonteCarloOptions{Evaluator: eval.Func(eval.Score), Repetitions: 4, Depth: 5, Workers: 2, Seed: 5})

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := midgame(t)
			if d := mc.ChooseMove(context.Background(), s); !d.OK || !s.CanMove(d.Direction) {
				t.Errorf("concurrent ChooseMove() = %s (ok=%v)", d.Direction, d.OK)
			}
		}()
	}
	wg.Wait()
}

func TestRandomOnlyLegalMoves(t *testing.T) {
	a := NewRandom(9)
	s := mustGrid(t, [][]int{
		{2, 4, 8, 16},
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	seen := map[board.Direction]bool{}
	for range 200 {
		d := a.ChooseMove(context.Background(), s)
		if !s.CanMove(d.Direction) {
			t.Fatalf("random agent chose illegal %s", d.Direction)
		}
		seen[d.Direction] = true
	}
	if len(seen) != len(s.ValidMoves()) {
		t.Errorf("random agent used %d of %d legal moves", len(seen), len(s.ValidMoves()))
	}
}

func TestPropagate(t *testing.T) {
	inf := math.Inf(-1)
	arena := []searchNode{
		{parent: -1, best: inf},
		{parent: 0, best: inf},
		{parent: 1, best: inf},
		{parent: 1, best: inf},
	}

	propagate(arena, 2, 5)
	propagate(arena, 3, 3)
	if arena[0].best != 5 || arena[1].best != 5 || arena[3].best != 3 {
		t.Errorf("after 5 then 3: bests = %v %v %v", arena[0].best, arena[1].best, arena[3].best)
	}

	propagate(arena, 3, 8)
	if arena[0].best != 8 || arena[1].best != 8 {
		t.Errorf("larger leaf did not reach the root: %v %v", arena[0].best, arena[1].best)
	}
}

func TestConstructorErrors(t *testing.T) {
	ev := eval.Func(eval.Merges)

	expectimax := []ExpectimaxOptions{
		{Depth: 2},
		{Evaluator: ev, Depth: 0},
		{Evaluator: ev, Depth: 2, Combine: "median"},
		{Evaluator: ev, Depth: 2, Workers: -1},
		{Evaluator: ev, Depth: 2, MaxNodes: -5},
		{Evaluator: ev, Depth: 2, TimeBudget: -1},
	}
	for i, opts := range expectimax {
		if _, err := NewExpectimax(opts); !errors.Is(err, ErrConfiguration) {
			t.Errorf("expectimax case %d: error = %v, want ErrConfiguration", i, err)
		}
	}

	montecarlo := []MonteCarloOptions{
		{Repetitions: 1},
		{Evaluator: ev, Repetitions: 0},
		{Evaluator: ev, Repetitions: 1, Depth: -1},
		{Evaluator: ev, Repetitions: 1, Policy: "greedy"},
		{Evaluator: ev, Repetitions: 1, Policy: PolicyTree, Depth: 0},
		{Evaluator: ev, Repetitions: 1, Workers: -2},
		{Evaluator: ev, Repetitions: 1, TimeBudget: -1},
	}
	for i, opts := range montecarlo {
		if _, err := NewMonteCarlo(opts); !errors.Is(err, ErrConfiguration) {
			t.Errorf("montecarlo case %d: error = %v, want ErrConfiguration", i, err)
		}
	}
}

func TestRegistryFactories(t *testing.T) {
	base := config.Default().Agent
	rt := core.RuntimeConfig{Seed: 11}

	for _, kind := range []string{KindExpectimax, KindMonteCarlo, KindRandom} {
		cfg := base
		cfg.Kind = kind
		a, err := registry.Create(cfg, rt)
		if err != nil {
			t.Errorf("registry.Create(%s) failed: %v", kind, err)
			continue
		}
		if a.Name() == "" {
			t.Errorf("%s agent has an empty name", kind)
		}
	}

	cfg := base
	cfg.Value = "nonsense"
	if _, err := registry.Create(cfg, rt); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown value function: error = %v, want ErrConfiguration", err)
	}

	cfg = base
	cfg.Kind = KindExpectimax
	cfg.Depth = 0
	if _, err := registry.Create(cfg, rt); !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero depth: error = %v, want ErrConfiguration", err)
	}
}
