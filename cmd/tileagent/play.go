package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tileagent/internal/game"
	"github.com/vovakirdan/tileagent/internal/registry"
)

var flagShow bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game with the configured agent",
	Long: `Play a single game to the end with the configured agent.

The board is printed after every move when stdout is a terminal (or with
--show). The final score, largest tile and search statistics are printed
when the game ends. Ctrl+C stops the game and prints the result so far.

Examples:
  tileagent play
  tileagent play --agent montecarlo --reps 20 --seed 42
  tileagent play --preset strong --show --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagShow, "show", false, "Print the board after every move")
}

func runPlay(cmd *cobra.Command, _ []string) {
	logger := newLogger()
	cfg := loadConfig(cmd, logger)
	rt := runtimeConfig(logger)

	a, err := registry.Create(cfg.Agent, rt)
	if err != nil {
		exitf("%v", err)
	}

	session, err := game.NewSession(a, game.SessionOptions{
		Size:     cfg.Board.Size,
		Seed:     rt.Seed,
		MaxMoves: cfg.Game.MaxMoves,
		Logger:   logger,
	})
	if err != nil {
		exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	show := flagShow || term.IsTerminal(int(os.Stdout.Fd()))
	if show {
		fmt.Print(session.Board())
	}
	for !session.Over() && ctx.Err() == nil {
		res := session.Step(ctx)
		if show && res.Decision.OK {
			snap := session.Snapshot()
			fmt.Printf("\nmove %d: %s (value %.2f)  score %d\n", snap.Move, res.Decision.Direction, res.Decision.Value, snap.Score)
			fmt.Print(session.Board())
		}
	}

	res := session.Result()
	if ctx.Err() != nil {
		res.State = game.StateInterrupted
	}

	fmt.Println()
	fmt.Printf("Agent:     %s\n", res.Agent)
	fmt.Printf("Seed:      %d\n", res.Seed)
	fmt.Printf("Result:    %s after %d moves\n", res.State, res.Moves)
	fmt.Printf("Score:     %d\n", res.Score)
	fmt.Printf("Max tile:  %d\n", res.MaxTile)
	fmt.Printf("Merges:    %d\n", res.Merges)
	if m := game.HighestMilestone(res.MaxTile); m != nil {
		fmt.Printf("Milestone: %s (%d)\n", m.Name, m.Target)
	}
	fmt.Printf("Search:    %d leaves, %d nodes, %d rollouts in %s\n",
		res.Stats.LeafEvaluations, res.Stats.NodesExpanded, res.Stats.Rollouts, res.Stats.Elapsed)
}
