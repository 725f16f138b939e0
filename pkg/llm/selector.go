package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// SelectorConfig is passed at construction, the selector holds no
// global state.
type SelectorConfig struct {
	// Default is used when the caller does not name a provider.
	Default string
	// Order is the fallback chain tried after the preferred provider.
	Order []string
	// Providers maps provider name to its adapter config.
	Providers map[string]Config
}

// Selector owns the adapter registry and picks a working provider per
// request, falling back down the configured order.
type Selector struct {
	config       SelectorConfig
	constructors map[string]Constructor

	mu       sync.Mutex
	adapters map[string]Adapter
}

// defaultConstructors is the registry of known providers. Adding a
// provider means adding a constructor here, not editing a switch.
func defaultConstructors() map[string]Constructor {
	return map[string]Constructor{
		"openai": NewOpenAIAdapter,
		"gemini": NewGeminiAdapter,
	}
}

func NewSelector(config SelectorConfig) (*Selector, error) {
	constructors := defaultConstructors()
	for name := range config.Providers {
		if _, known := constructors[name]; !known {
			return nil, fmt.Errorf("unsupported AI provider: %s", name)
		}
	}
	if config.Default != "" {
		if _, configured := config.Providers[config.Default]; !configured {
			return nil, fmt.Errorf("default AI provider %s is not configured", config.Default)
		}
	}

	return &Selector{
		config:       config,
		constructors: constructors,
		adapters:     make(map[string]Adapter),
	}, nil
}

// ListConfigured returns the names of providers the selector can build.
func (s *Selector) ListConfigured() []string {
	names := make([]string, 0, len(s.config.Providers))
	for name := range s.config.Providers {
		names = append(names, name)
	}
	return names
}

// Resolve returns a live adapter, starting from preferred (or the
// default when empty) and walking the fallback order. Each candidate
// is availability-probed, the first that answers wins.
func (s *Selector) Resolve(ctx context.Context, preferred string) (Adapter, string, error) {
	candidates := s.candidates(preferred)
	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("no AI providers configured")
	}

	attempted := make([]string, 0, len(candidates))
	for _, name := range candidates {
		attempted = append(attempted, name)

		adapter, err := s.adapter(name)
		if err != nil {
			log.Printf("Selector -> provider %s unusable: %v", name, err)
			continue
		}
		if !adapter.IsAvailable(ctx) {
			log.Printf("Selector -> provider %s unavailable, falling back", name)
			continue
		}
		if name != candidates[0] {
			log.Printf("Selector -> fell back to provider %s", name)
		}
		return adapter, name, nil
	}

	return nil, "", fmt.Errorf("all AI providers unavailable, tried: %s", strings.Join(attempted, ", "))
}

// candidates builds the ordered provider list: preferred first, then
// the fallback order, skipping unconfigured names and duplicates.
func (s *Selector) candidates(preferred string) []string {
	ordered := make([]string, 0, len(s.config.Order)+2)
	seen := make(map[string]bool)

	appendName := func(name string) {
		if name == "" || seen[name] {
			return
		}
		if _, configured := s.config.Providers[name]; !configured {
			return
		}
		seen[name] = true
		ordered = append(ordered, name)
	}

	appendName(preferred)
	appendName(s.config.Default)
	for _, name := range s.config.Order {
		appendName(name)
	}
	return ordered
}

// adapter returns the cached adapter for name, constructing it on
// first use.
func (s *Selector) adapter(name string) (Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adapter, exists := s.adapters[name]; exists {
		return adapter, nil
	}

	construct, known := s.constructors[name]
	if !known {
		return nil, fmt.Errorf("unsupported AI provider: %s", name)
	}
	config, configured := s.config.Providers[name]
	if !configured {
		return nil, fmt.Errorf("AI provider not configured: %s", name)
	}

	adapter, err := construct(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI adapter: %v", err)
	}
	s.adapters[name] = adapter
	return adapter, nil
}

// registerConstructor swaps in a constructor, used by tests to install
// fake providers.
func (s *Selector) registerConstructor(name string, construct Constructor) {
	s.constructors[name] = construct
}
