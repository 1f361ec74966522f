package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileagent/internal/eval"
	"github.com/vovakirdan/tileagent/internal/registry"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agents and value functions",
	Long:  `Shows the registered agents and the value functions they can use.`,
	Args:  cobra.NoArgs,
	Run:   runAgents,
}

func runAgents(cmd *cobra.Command, args []string) {
	agents := registry.List()

	if len(agents) == 0 {
		fmt.Println("No agents available.")
		return
	}

	fmt.Println("Available agents:")
	fmt.Println()

	// Calculate column width
	maxKindLen := 4 // "Kind" header
	for _, a := range agents {
		if len(a.Kind) > maxKindLen {
			maxKindLen = len(a.Kind)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxKindLen, "Kind", "Description")
	fmt.Printf("  %-*s  %s\n", maxKindLen, "----", "-----------")
	for _, a := range agents {
		fmt.Printf("  %-*s  %s\n", maxKindLen, a.Kind, a.Description)
	}

	fmt.Println()
	fmt.Println("Value functions:")
	for _, name := range eval.Names() {
		if name == eval.Default {
			fmt.Printf("  %s (default)\n", name)
			continue
		}
		fmt.Printf("  %s\n", name)
	}

	fmt.Println()
	fmt.Println("Run 'tileagent play --agent <kind> --value <name>' to watch one play.")
}
