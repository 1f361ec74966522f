package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileagent/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after the config file search, --preset and
flag overrides have been applied, as YAML. The output can be saved to
~/.tileagent/config.yaml or configs/tileagent.yaml and edited.`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) {
	logger := newLogger()
	cfg := loadConfig(cmd, logger)

	data, err := config.Marshal(cfg)
	if err != nil {
		exitf("encode config: %v", err)
	}
	fmt.Printf("# source: %s\n", cfg.Source)
	fmt.Print(string(data))
}
