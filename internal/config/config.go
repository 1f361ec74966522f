// Package config provides YAML-based configuration loading and preset
// management for the board, the game loop and the agents.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tileagent/internal/board"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full tileagent configuration.
type Config struct {
	Board BoardConfig `yaml:"board"`
	Game  GameConfig  `yaml:"game"`
	Agent AgentConfig `yaml:"agent"`

	// Source records where the configuration was read from.
	Source string `yaml:"-"`
}

// BoardConfig defines the board geometry.
type BoardConfig struct {
	Size int `yaml:"size"`
}

// GameConfig defines the control loop and bench parameters.
type GameConfig struct {
	MaxMoves int `yaml:"max_moves"` // 0 = play until no move is legal
	Games    int `yaml:"games"`     // Games played by bench
	Parallel int `yaml:"parallel"`  // Concurrent bench games; 0 = GOMAXPROCS
}

// AgentConfig selects and tunes the move-choosing agent.
type AgentConfig struct {
	Kind        string        `yaml:"kind"`        // expectimax, montecarlo or random
	Value       string        `yaml:"value"`       // Value function name
	Depth       int           `yaml:"depth"`       // Search depth or rollout move bound
	Repetitions int           `yaml:"repetitions"` // Rollouts per direction
	Policy      string        `yaml:"policy"`      // Rollout policy: random or tree
	Combine     string        `yaml:"combine"`     // Chance combine rule: expectation or max-branch
	Workers     int           `yaml:"workers"`     // Goroutines per decision; 0 = GOMAXPROCS
	TimeBudget  time.Duration `yaml:"time_budget"` // Per-decision wall-clock budget; 0 = none
	MaxNodes    int64         `yaml:"max_nodes"`   // Expectimax node limit; 0 = none
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Board.Size < board.MinSize:
		return fmt.Errorf("%w: board.size %d is below %d", ErrInvalid, c.Board.Size, board.MinSize)
	case c.Game.MaxMoves < 0:
		return fmt.Errorf("%w: game.max_moves %d is negative", ErrInvalid, c.Game.MaxMoves)
	case c.Game.Games < 1:
		return fmt.Errorf("%w: game.games must be at least 1, got %d", ErrInvalid, c.Game.Games)
	case c.Game.Parallel < 0:
		return fmt.Errorf("%w: game.parallel %d is negative", ErrInvalid, c.Game.Parallel)
	}
	return c.Agent.Validate()
}

// Validate checks the agent settings that do not depend on the agent kind.
func (a AgentConfig) Validate() error {
	switch {
	case a.Kind == "":
		return fmt.Errorf("%w: agent.kind is empty", ErrInvalid)
	case a.Depth < 0:
		return fmt.Errorf("%w: agent.depth %d is negative", ErrInvalid, a.Depth)
	case a.Repetitions < 0:
		return fmt.Errorf("%w: agent.repetitions %d is negative", ErrInvalid, a.Repetitions)
	case a.Workers < 0:
		return fmt.Errorf("%w: agent.workers %d is negative", ErrInvalid, a.Workers)
	case a.TimeBudget < 0:
		return fmt.Errorf("%w: agent.time_budget %s is negative", ErrInvalid, a.TimeBudget)
	case a.MaxNodes < 0:
		return fmt.Errorf("%w: agent.max_nodes %d is negative", ErrInvalid, a.MaxNodes)
	}
	return nil
}
