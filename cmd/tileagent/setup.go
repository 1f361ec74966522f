package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/tileagent/internal/config"
	"github.com/vovakirdan/tileagent/internal/core"
)

var (
	// Agent and board overrides, applied over the config file and preset
	flagAgent    string
	flagDepth    int
	flagReps     int
	flagValue    string
	flagPolicy   string
	flagCombine  string
	flagWorkers  int
	flagBudget   time.Duration
	flagMaxNodes int64
	flagSize     int
	flagMaxMoves int
)

func addAgentFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagAgent, "agent", "", "Agent kind: expectimax, montecarlo, random")
	fs.IntVar(&flagDepth, "depth", 0, "Search depth (expectimax) or rollout move bound (montecarlo)")
	fs.IntVar(&flagReps, "reps", 0, "Monte Carlo rollouts per direction")
	fs.StringVar(&flagValue, "value", "", "Value function: merges, corner, score, density, adjacent")
	fs.StringVar(&flagPolicy, "policy", "", "Monte Carlo rollout policy: random, tree")
	fs.StringVar(&flagCombine, "combine", "", "Expectimax chance rule: expectation, max-branch")
	fs.IntVar(&flagWorkers, "workers", 0, "Goroutines per decision (0 = GOMAXPROCS)")
	fs.DurationVar(&flagBudget, "budget", 0, "Wall-clock budget per decision (0 = none)")
	fs.Int64Var(&flagMaxNodes, "max-nodes", 0, "Expectimax node limit per decision (0 = none)")
	fs.IntVar(&flagSize, "size", 0, "Board size")
	fs.IntVar(&flagMaxMoves, "max-moves", 0, "Stop each game after this many moves (0 = no limit)")
}

// loadConfig resolves the configuration: file search, then preset, then
// explicitly set flags. It exits on invalid settings.
func loadConfig(cmd *cobra.Command, logger *log.Logger) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		exitf("%v", err)
	}
	if cfg.Source == "default" {
		logger.Warn("embedded config unreadable, using built-in defaults")
	}
	logger.Debug("config loaded", "source", cfg.Source)

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		exitf("%v", err)
	}
	config.ApplyPreset(&cfg, preset)

	flags := cmd.Flags()
	if flags.Changed("agent") {
		cfg.Agent.Kind = flagAgent
	}
	if flags.Changed("depth") {
		cfg.Agent.Depth = flagDepth
	}
	if flags.Changed("reps") {
		cfg.Agent.Repetitions = flagReps
	}
	if flags.Changed("value") {
		cfg.Agent.Value = flagValue
	}
	if flags.Changed("policy") {
		cfg.Agent.Policy = flagPolicy
	}
	if flags.Changed("combine") {
		cfg.Agent.Combine = flagCombine
	}
	if flags.Changed("workers") {
		cfg.Agent.Workers = flagWorkers
	}
	if flags.Changed("budget") {
		cfg.Agent.TimeBudget = flagBudget
	}
	if flags.Changed("max-nodes") {
		cfg.Agent.MaxNodes = flagMaxNodes
	}
	if flags.Changed("size") {
		cfg.Board.Size = flagSize
	}
	if flags.Changed("max-moves") {
		cfg.Game.MaxMoves = flagMaxMoves
	}

	if err := cfg.Validate(); err != nil {
		exitf("%v", err)
	}
	return cfg
}

// newLogger creates the process logger on stderr.
func newLogger() *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		exitf("invalid log level %q", flagLogLevel)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tileagent",
		Level:           level,
	})
}

// runtimeConfig resolves the seed, logging it when it was not given so the
// run can be reproduced.
func runtimeConfig(logger *log.Logger) core.RuntimeConfig {
	seed := core.ResolveSeed(flagSeed)
	if flagSeed == 0 {
		logger.Info("using time-based seed", "seed", seed)
	}
	return core.RuntimeConfig{Seed: seed}
}
