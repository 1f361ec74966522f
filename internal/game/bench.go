package game

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tileagent/internal/config"
	"github.com/vovakirdan/tileagent/internal/core"
	"github.com/vovakirdan/tileagent/internal/registry"
)

// BenchOptions configures Bench.
type BenchOptions struct {
	Games    int   // Number of games; at least 1
	Parallel int   // Concurrent games; 0 means GOMAXPROCS
	Seed     int64 // Game i uses Seed+i for both spawns and agent
	Size     int
	MaxMoves int
	Agent    config.AgentConfig
	Logger   *log.Logger // nil discards
}

// MilestoneRate is the share of games that reached a milestone.
type MilestoneRate struct {
	Target int     `json:"target" yaml:"target"`
	Name   string  `json:"name" yaml:"name"`
	Games  int     `json:"games" yaml:"games"`
	Rate   float64 `json:"rate" yaml:"rate"`
}

// Summary aggregates the results of a bench run.
type Summary struct {
	Agent       string          `json:"agent" yaml:"agent"`
	Games       int             `json:"games" yaml:"games"`
	Seed        int64           `json:"seed" yaml:"seed"`
	MeanScore   float64         `json:"mean_score" yaml:"mean_score"`
	MedianScore float64         `json:"median_score" yaml:"median_score"`
	MinScore    int             `json:"min_score" yaml:"min_score"`
	MaxScore    int             `json:"max_score" yaml:"max_score"`
	MeanMoves   float64         `json:"mean_moves" yaml:"mean_moves"`
	BestTile    int             `json:"best_tile" yaml:"best_tile"`
	TileCounts  map[int]int     `json:"tile_counts" yaml:"tile_counts"` // Games per final max tile
	Milestones  []MilestoneRate `json:"milestones" yaml:"milestones"`
	Stats       core.Stats      `json:"stats" yaml:"stats"`
	Elapsed     time.Duration   `json:"elapsed" yaml:"elapsed"`
	Results     []Result        `json:"results,omitempty" yaml:"results,omitempty"`
}

// Bench plays opts.Games seeded games, each with its own agent instance, and
// summarizes them. Results are ordered by game index regardless of
// scheduling.
func Bench(ctx context.Context, opts BenchOptions) (Summary, error) {
	if opts.Games < 1 {
		return Summary{}, fmt.Errorf("game: bench needs at least one game, got %d", opts.Games)
	}
	if !registry.Exists(opts.Agent.Kind) {
		return Summary{}, fmt.Errorf("game: unknown agent %q", opts.Agent.Kind)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	parallel := opts.Parallel
	if parallel == 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := make([]Result, opts.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range opts.Games {
		g.Go(func() error {
			seed := opts.Seed + int64(i)
			a, err := registry.Create(opts.Agent, core.RuntimeConfig{Seed: seed})
			if err != nil {
				return err
			}
			s, err := NewSession(a, SessionOptions{
				Size:     opts.Size,
				Seed:     seed,
				MaxMoves: opts.MaxMoves,
				Logger:   logger.With("game", i+1),
			})
			if err != nil {
				return err
			}
			res, err := s.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			logger.Info("game finished", "game", i+1, "of", opts.Games, "score", res.Score, "max_tile", res.MaxTile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("game: bench: %w", err)
	}

	sum := Summarize(results)
	sum.Seed = opts.Seed
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// Summarize aggregates game results.
func Summarize(results []Result) Summary {
	sum := Summary{
		Games:      len(results),
		TileCounts: make(map[int]int),
		Results:    results,
	}
	if len(results) == 0 {
		return sum
	}
	sum.Agent = results[0].Agent

	scores := make([]int, len(results))
	totalScore, totalMoves := 0, 0
	reached := make([]int, MilestoneCount())
	for i, r := range results {
		scores[i] = r.Score
		totalScore += r.Score
		totalMoves += r.Moves
		sum.TileCounts[r.MaxTile]++
		sum.BestTile = max(sum.BestTile, r.MaxTile)
		sum.Stats.Add(r.Stats)
		for m := range MilestonesReached(r.MaxTile) {
			reached[m]++
		}
	}

	sort.Ints(scores)
	n := len(scores)
	sum.MinScore, sum.MaxScore = scores[0], scores[n-1]
	sum.MeanScore = float64(totalScore) / float64(n)
	sum.MeanMoves = float64(totalMoves) / float64(n)
	if n%2 == 1 {
		sum.MedianScore = float64(scores[n/2])
	} else {
		sum.MedianScore = float64(scores[n/2-1]+scores[n/2]) / 2
	}

	for i, m := range Milestones {
		if reached[i] == 0 {
			break
		}
		sum.Milestones = append(sum.Milestones, MilestoneRate{
			Target: m.Target,
			Name:   m.Name,
			Games:  reached[i],
			Rate:   float64(reached[i]) / float64(n),
		})
	}
	return sum
}
