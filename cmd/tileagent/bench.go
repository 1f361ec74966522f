package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tileagent/internal/game"
)

var (
	flagGames    int
	flagParallel int
	flagFormat   string
	flagResults  bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play many seeded games and summarize them",
	Long: `Play a batch of games with the configured agent and print aggregate
statistics: mean, median and extreme scores, the distribution of final
largest tiles and the share of games that reached each milestone.

Game i uses seed+i for both tile spawns and the agent, so a bench run is
reproducible for a fixed --seed regardless of --parallel.

Examples:
  tileagent bench --games 100 --parallel 8 --seed 1
  tileagent bench --agent montecarlo --reps 10 --format yaml
  tileagent bench --preset fast --format json --results > runs.json`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntVar(&flagGames, "games", 0, "Number of games (default from config)")
	f.IntVar(&flagParallel, "parallel", 0, "Concurrent games (default from config, 0 = GOMAXPROCS)")
	f.StringVar(&flagFormat, "format", "text", "Output format: text, json, yaml")
	f.BoolVar(&flagResults, "results", false, "Include per-game results in the output")
}

func runBench(cmd *cobra.Command, _ []string) {
	logger := newLogger()
	cfg := loadConfig(cmd, logger)
	rt := runtimeConfig(logger)

	if cmd.Flags().Changed("games") {
		cfg.Game.Games = flagGames
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Game.Parallel = flagParallel
	}
	if err := cfg.Validate(); err != nil {
		exitf("%v", err)
	}
	switch flagFormat {
	case "text", "json", "yaml":
	default:
		exitf("unknown format %q (use text, json or yaml)", flagFormat)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("bench started", "agent", cfg.Agent.Kind, "games", cfg.Game.Games, "parallel", cfg.Game.Parallel, "seed", rt.Seed)
	sum, err := game.Bench(ctx, game.BenchOptions{
		Games:    cfg.Game.Games,
		Parallel: cfg.Game.Parallel,
		Seed:     rt.Seed,
		Size:     cfg.Board.Size,
		MaxMoves: cfg.Game.MaxMoves,
		Agent:    cfg.Agent,
		Logger:   logger,
	})
	if err != nil {
		exitf("%v", err)
	}
	if !flagResults {
		sum.Results = nil
	}

	switch flagFormat {
	case "json":
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			exitf("encode summary: %v", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(sum)
		if err != nil {
			exitf("encode summary: %v", err)
		}
		fmt.Print(string(data))
	default:
		printSummary(sum)
	}
}

func printSummary(sum game.Summary) {
	fmt.Printf("Agent:        %s\n", sum.Agent)
	fmt.Printf("Games:        %d (seeds %d..%d)\n", sum.Games, sum.Seed, sum.Seed+int64(sum.Games)-1)
	fmt.Printf("Score:        mean %.1f, median %.1f, min %d, max %d\n", sum.MeanScore, sum.MedianScore, sum.MinScore, sum.MaxScore)
	fmt.Printf("Moves:        mean %.1f\n", sum.MeanMoves)
	fmt.Printf("Best tile:    %d\n", sum.BestTile)
	fmt.Printf("Elapsed:      %s\n", sum.Elapsed)
	fmt.Println()

	if len(sum.Milestones) > 0 {
		fmt.Println("Milestones:")
		for _, m := range sum.Milestones {
			fmt.Printf("  %5d  %-16s %4d games  %5.1f%%\n", m.Target, m.Name, m.Games, m.Rate*100)
		}
		fmt.Println()
	}

	if len(sum.Results) > 0 {
		fmt.Println("Games:")
		fmt.Printf("  %-20s  %6s  %6s  %6s  %s\n", "Seed", "Moves", "Score", "Tile", "State")
		for _, r := range sum.Results {
			fmt.Printf("  %-20d  %6d  %6d  %6d  %s\n", r.Seed, r.Moves, r.Score, r.MaxTile, r.State)
		}
		fmt.Println()
	}

	fmt.Printf("Search: %d leaves, %d nodes, %d rollouts, %s thinking\n",
		sum.Stats.LeafEvaluations, sum.Stats.NodesExpanded, sum.Stats.Rollouts, sum.Stats.Elapsed)
}
