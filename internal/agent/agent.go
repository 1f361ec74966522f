// Package agent implements the move-choosing strategies: depth-limited
// expectimax, Monte Carlo rollouts and a uniform random baseline. All of
// them register with the agent registry under their kind.
//
// Agents never modify the state passed to ChooseMove. Search statistics are
// returned with each decision rather than kept in globals.
package agent

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/vovakirdan/tileagent/internal/config"
	"github.com/vovakirdan/tileagent/internal/core"
	"github.com/vovakirdan/tileagent/internal/eval"
	"github.com/vovakirdan/tileagent/internal/registry"
)

// ErrConfiguration is returned by constructors for invalid options.
var ErrConfiguration = errors.New("agent: invalid configuration")

// Registered agent kinds.
const (
	KindExpectimax = "expectimax"
	KindMonteCarlo = "montecarlo"
	KindRandom     = "random"
)

func init() {
	registry.Register(KindExpectimax, "depth-limited expectimax over spawn outcomes", newExpectimaxAgent)
	registry.Register(KindMonteCarlo, "averaged rollouts from each legal move", newMonteCarloAgent)
	registry.Register(KindRandom, "uniform random legal move", newRandomAgent)
}

func newExpectimaxAgent(cfg config.AgentConfig, _ core.RuntimeConfig) (registry.Agent, error) {
	ev, err := evaluator(cfg.Value)
	if err != nil {
		return nil, err
	}
	return NewExpectimax(ExpectimaxOptions{
		Evaluator:  ev,
		Depth:      cfg.Depth,
		Combine:    Combine(cfg.Combine),
		Workers:    cfg.Workers,
		MaxNodes:   cfg.MaxNodes,
		TimeBudget: cfg.TimeBudget,
	})
}

func newMonteCarloAgent(cfg config.AgentConfig, rt core.RuntimeConfig) (registry.Agent, error) {
	ev, err := evaluator(cfg.Value)
	if err != nil {
		return nil, err
	}
	return NewMonteCarlo(MonteCarloOptions{
		Evaluator:   ev,
		Repetitions: cfg.Repetitions,
		Depth:       cfg.Depth,
		Policy:      Policy(cfg.Policy),
		Workers:     cfg.Workers,
		TimeBudget:  cfg.TimeBudget,
		Seed:        core.ResolveSeed(rt.Seed),
	})
}

func newRandomAgent(_ config.AgentConfig, rt core.RuntimeConfig) (registry.Agent, error) {
	return NewRandom(core.ResolveSeed(rt.Seed)), nil
}

func evaluator(name string) (eval.Evaluator, error) {
	if name == "" {
		name = eval.Default
	}
	ev, err := eval.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return ev, nil
}

// resolveWorkers maps 0 to GOMAXPROCS and caps the result at jobs.
func resolveWorkers(workers, jobs int) int {
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, jobs))
}
