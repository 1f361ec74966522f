package game

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/core"
	"github.com/vovakirdan/tileagent/internal/registry"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Size     int          // Board dimension; 0 means board.DefaultSize
	Seed     int64        // Spawn seed; 0 means time-derived
	MaxMoves int          // Move limit; 0 means play until no move is legal
	Start    *board.State // Optional starting position, copied; replaces the two opening tiles
	Logger   *log.Logger  // nil discards
}

// Session plays one game: it asks the agent for a move, applies it, spawns
// a tile, and stops when no move is legal or the move limit is reached.
type Session struct {
	agent    registry.Agent
	rng      *rand.Rand
	seed     int64
	logger   *log.Logger
	maxMoves int

	board     *board.State
	moves     int
	milestone int // Milestones already reached
	stats     core.Stats
	state     GameStateType
	started   time.Time
	elapsed   time.Duration
}

// StepResult describes one applied move.
type StepResult struct {
	Decision   core.Decision
	Merges     int
	Spawned    board.Cell
	SpawnValue int // 0 when the board had no room
	State      GameStateType
}

// NewSession creates a session with a fresh (or supplied) board.
func NewSession(a registry.Agent, opts SessionOptions) (*Session, error) {
	if a == nil {
		return nil, fmt.Errorf("game: nil agent")
	}
	if opts.MaxMoves < 0 {
		return nil, fmt.Errorf("game: negative move limit %d", opts.MaxMoves)
	}
	size := opts.Size
	if size == 0 {
		size = board.DefaultSize
	}

	seed := core.ResolveSeed(opts.Seed)
	rng := core.NewRand(seed, core.StreamBoard)

	var (
		b   *board.State
		err error
	)
	if opts.Start != nil {
		b = opts.Start.Clone()
	} else if b, err = board.NewGame(size, rng); err != nil {
		return nil, fmt.Errorf("game: new board: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		agent:    a,
		rng:      rng,
		seed:     seed,
		logger:   logger,
		maxMoves: opts.MaxMoves,
		board:    b,
		state:    StatePlaying,
	}
	s.milestone = MilestonesReached(b.MaxTile())
	if !b.IsAbleToMove() {
		s.state = StateGameOver
	}
	return s, nil
}

// Board returns a copy of the current position.
func (s *Session) Board() *board.State {
	return s.board.Clone()
}

// State returns the current game state.
func (s *Session) State() GameStateType {
	return s.state
}

// Over reports whether the game has ended.
func (s *Session) Over() bool {
	return s.state != StatePlaying
}

// Step plays one move. It is a no-op once the game is over.
func (s *Session) Step(ctx context.Context) StepResult {
	if s.Over() {
		return StepResult{State: s.state}
	}
	if s.started.IsZero() {
		s.started = time.Now()
	}

	d := s.agent.ChooseMove(ctx, s.board)
	s.stats.Add(d.Stats)
	if !d.OK || !s.board.CanMove(d.Direction) {
		s.finish(StateGameOver)
		return StepResult{Decision: d, State: s.state}
	}

	res := StepResult{Decision: d}
	res.Merges = s.board.TransitionInPlace(d.Direction)
	s.moves++
	if !s.board.IsDead() {
		cell, value, err := s.board.AddRandomTile(s.rng)
		if err == nil {
			res.Spawned, res.SpawnValue = cell, value
		}
	}

	s.logger.Debug("move",
		"n", s.moves,
		"dir", d.Direction,
		"value", d.Value,
		"merges", res.Merges,
		"score", s.board.Score(),
	)
	s.checkMilestones()

	switch {
	case !s.board.IsAbleToMove():
		s.finish(StateGameOver)
	case s.maxMoves > 0 && s.moves >= s.maxMoves:
		s.finish(StateMoveLimit)
	}

	res.State = s.state
	return res
}

// Run plays until the game ends or ctx is done.
func (s *Session) Run(ctx context.Context) (Result, error) {
	for !s.Over() {
		if err := ctx.Err(); err != nil {
			s.finish(StateInterrupted)
			return s.Result(), fmt.Errorf("game: run: %w", err)
		}
		s.Step(ctx)
	}
	return s.Result(), nil
}

// Result summarizes the game so far.
func (s *Session) Result() Result {
	elapsed := s.elapsed
	if !s.Over() && !s.started.IsZero() {
		elapsed = time.Since(s.started)
	}
	res := Result{
		Seed:    s.seed,
		Agent:   s.agent.Name(),
		Moves:   s.moves,
		Score:   s.board.Score(),
		Merges:  s.board.Merges(),
		MaxTile: s.board.MaxTile(),
		State:   s.state,
		Stats:   s.stats,
		Elapsed: elapsed,
	}
	if m := HighestMilestone(res.MaxTile); m != nil {
		res.Milestone = m.Target
	}
	return res
}

func (s *Session) checkMilestones() {
	maxTile := s.board.MaxTile()
	for s.milestone < MilestoneCount() {
		m := GetMilestone(s.milestone)
		if maxTile < m.Target {
			return
		}
		s.milestone++
		s.logger.Info("milestone reached", "tile", m.Target, "name", m.Name, "move", s.moves)
	}
}

func (s *Session) finish(state GameStateType) {
	s.state = state
	if !s.started.IsZero() {
		s.elapsed = time.Since(s.started)
	}
	s.logger.Info("game over",
		"state", state,
		"score", s.board.Score(),
		"max_tile", s.board.MaxTile(),
		"moves", s.moves,
	)
}
