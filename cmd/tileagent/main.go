// tileagent plays the sliding-tile puzzle with search agents.
//
// Usage:
//
//	tileagent play              - Play one game and print the result
//	tileagent bench             - Play many seeded games and summarize them
//	tileagent analyze [cells]   - Recommend a move for a given board
//	tileagent agents            - List agents and value functions
//	tileagent config            - Print the effective configuration
//
// Global flags:
//
//	--seed <value>      - RNG seed for reproducible play (0 = time)
//	--config <path>     - Configuration file (default search: ~/.tileagent, ./configs)
//	--preset <name>     - Search strength: fast, balanced, strong
//	--log-level <lvl>   - debug, info, warn, error
//	--profile <kind>    - Write a cpu, mem, block, mutex or trace profile
package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	// Import agents to register them
	_ "github.com/vovakirdan/tileagent/internal/agent"
)

var (
	// Global flags
	flagSeed       int64
	flagConfig     string
	flagPreset     string
	flagLogLevel   string
	flagProfile    string
	flagProfileDir string

	profiler interface{ Stop() }
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tileagent",
	Short: "Sliding-tile puzzle engine with expectimax and Monte Carlo agents",
	Long: `tileagent simulates the sliding-tile puzzle (2048) and lets search agents
play it.

Available commands:
  play     - Play one game with the configured agent
  bench    - Play many seeded games and summarize them
  analyze  - Recommend a move for a given board
  agents   - Show agents and value functions
  config   - Print the effective configuration

Examples:
  tileagent play --agent expectimax --depth 3
  tileagent bench --games 50 --parallel 8 --preset fast
  tileagent bench --agent montecarlo --policy tree --format json
  tileagent analyze 0 0 0 0  0 0 0 0  0 2 0 0  2 2 4 0`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		startProfile()
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		stopProfile()
	},
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.StringVar(&flagPreset, "preset", "", "Search preset: fast, balanced, strong")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagProfile, "profile", "", "Profile kind: cpu, mem, block, mutex, trace")
	pf.StringVar(&flagProfileDir, "profile-dir", ".", "Directory for profile output")
	addAgentFlags(pf)

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(configCmd)
}

func startProfile() {
	var mode func(*profile.Profile)
	switch flagProfile {
	case "":
		return
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	case "trace":
		mode = profile.TraceProfile
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown profile kind %q\n", flagProfile)
		os.Exit(1)
	}
	profiler = profile.Start(mode, profile.ProfilePath(flagProfileDir), profile.NoShutdownHook)
}

func stopProfile() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

// exitf reports an error, flushes any running profile and exits.
func exitf(format string, args ...any) {
	stopProfile()
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
