package game

import (
	"time"

	"github.com/vovakirdan/tileagent/internal/core"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateGameOver    GameStateType = "game_over"
	StateMoveLimit   GameStateType = "move_limit"
	StateInterrupted GameStateType = "interrupted"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Move      int
	Score     int
	Merges    int
	Board     [][]int // Row 0 is the bottom row
	MaxTile   int     // Highest tile on board
	Milestone int     // Highest milestone target reached, 0 for none
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Move:    s.moves,
		Score:   s.board.Score(),
		Merges:  s.board.Merges(),
		Board:   s.board.Grid(),
		MaxTile: s.board.MaxTile(),
		State:   s.state,
	}
	if m := HighestMilestone(snap.MaxTile); m != nil {
		snap.Milestone = m.Target
	}
	return snap
}

// Result is the outcome of one game.
type Result struct {
	Seed      int64         `json:"seed" yaml:"seed"`
	Agent     string        `json:"agent" yaml:"agent"`
	Moves     int           `json:"moves" yaml:"moves"`
	Score     int           `json:"score" yaml:"score"`
	Merges    int           `json:"merges" yaml:"merges"`
	MaxTile   int           `json:"max_tile" yaml:"max_tile"`
	Milestone int           `json:"milestone" yaml:"milestone"`
	State     GameStateType `json:"state" yaml:"state"`
	Stats     core.Stats    `json:"stats" yaml:"stats"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}
