package config

import (
	_ "embed"

	"github.com/vovakirdan/tileagent/internal/board"
)

//go:embed defaults/tileagent.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration. Embedded and file
// configurations are decoded on top of it.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Size: board.DefaultSize,
		},
		Game: GameConfig{
			MaxMoves: 0,
			Games:    10,
			Parallel: 1,
		},
		Agent: AgentConfig{
			Kind:        "expectimax",
			Value:       "merges",
			Depth:       3,
			Repetitions: 10,
			Policy:      "random",
			Combine:     "expectation",
			Workers:     1,
		},
		Source: "default",
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
