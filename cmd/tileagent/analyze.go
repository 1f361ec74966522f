package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/registry"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [cells...]",
	Short: "Recommend a move for a given board",
	Long: `Ask the configured agent for the best move on a board.

The board is given as N*N tile values, top row first, either as arguments
or on stdin. Values may be separated by spaces, commas or newlines; 0 is an
empty cell. The value of every legal direction is printed along with the
recommendation.

Examples:
  tileagent analyze 0 0 0 0  0 0 0 0  0 2 0 0  2 2 4 0
  echo "2,2,0,0 4,8,0,0 0,0,0,0 0,0,0,0" | tileagent analyze --depth 4`,
	Run: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) {
	logger := newLogger()
	cfg := loadConfig(cmd, logger)
	rt := runtimeConfig(logger)

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitf("read board: %v", err)
		}
		text = string(data)
	}
	state, err := board.Parse(text)
	if err != nil {
		exitf("%v", err)
	}

	a, err := registry.Create(cfg.Agent, rt)
	if err != nil {
		exitf("%v", err)
	}

	fmt.Print(state)
	fmt.Println()

	d := a.ChooseMove(context.Background(), state)
	if !d.OK {
		fmt.Println("No legal move: the game is over.")
		return
	}

	fmt.Printf("Agent: %s\n", a.Name())
	fmt.Println()
	fmt.Printf("  %-6s  %s\n", "Move", "Value")
	fmt.Printf("  %-6s  %s\n", "----", "-----")
	for _, ms := range d.Scores {
		marker := ""
		if ms.Direction == d.Direction {
			marker = "  <- best"
		}
		fmt.Printf("  %-6s  %.4f%s\n", ms.Direction, ms.Value, marker)
	}
	fmt.Println()
	fmt.Printf("Search: %d leaves, %d nodes, %d rollouts in %s", d.Stats.LeafEvaluations, d.Stats.NodesExpanded, d.Stats.Rollouts, d.Stats.Elapsed)
	if d.Stats.Truncated {
		fmt.Print(" (truncated)")
	}
	fmt.Println()
}
