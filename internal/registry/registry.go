// Package registry provides a global registry for agent factories.
// Agents register themselves in init() functions, allowing the CLI and the
// game loop to instantiate them by kind without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tileagent/internal/board"
	"github.com/vovakirdan/tileagent/internal/config"
	"github.com/vovakirdan/tileagent/internal/core"
)

// Agent is the interface every move-choosing strategy implements.
type Agent interface {
	// Name returns a short description of the agent and its settings.
	Name() string

	// ChooseMove picks a direction for s without modifying it.
	// Decision.OK is false when no direction is legal.
	// Cancelling ctx or passing its deadline cuts the search short.
	ChooseMove(ctx context.Context, s *board.State) core.Decision
}

// AgentInfo contains metadata about a registered agent kind.
type AgentInfo struct {
	Kind        string
	Description string
}

// Factory creates a new agent from its configuration.
type Factory func(cfg config.AgentConfig, rt core.RuntimeConfig) (Agent, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds an agent factory to the registry.
// Typically called from an agent's init() function.
// Panics if an agent with the same kind is already registered.
func Register(kind, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("registry: agent %q already registered", kind))
	}

	factories[kind] = f
	descriptions[kind] = description
}

// List returns information about all registered agents, sorted by kind.
func List() []AgentInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]AgentInfo, 0, len(factories))
	for kind := range factories {
		result = append(result, AgentInfo{
			Kind:        kind,
			Description: descriptions[kind],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Create instantiates a new agent of cfg.Kind.
// Returns an error if the kind is not registered or the factory rejects cfg.
func Create(cfg config.AgentConfig, rt core.RuntimeConfig) (Agent, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown agent %q", cfg.Kind)
	}

	a, err := f(cfg, rt)
	if err != nil {
		return nil, fmt.Errorf("registry: create %s: %w", cfg.Kind, err)
	}
	return a, nil
}

// Exists checks if an agent with the given kind is registered.
func Exists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}
