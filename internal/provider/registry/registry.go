// Package registry holds the registered provider adapters and their
// fallback order.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quizbooth/backend/internal/domain"
)

// Registry implements the ProviderRegistry interface.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]domain.Provider
	ordered   []domain.Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		providers: make(map[string]domain.Provider),
		ordered:   nil,
	}
}

// Register adds a provider to the registry and re-derives the fallback
// order (ascending priority, ties broken by name for determinism).
func (r *Registry) Register(provider domain.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	name := strings.ToLower(provider.Name())
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider

	r.ordered = append(r.ordered, provider)
	sort.SliceStable(r.ordered, func(i, j int) bool {
		if r.ordered[i].Priority() != r.ordered[j].Priority() {
			return r.ordered[i].Priority() < r.ordered[j].Priority()
		}
		return r.ordered[i].Name() < r.ordered[j].Name()
	})

	return nil
}

// Get retrieves a provider by name (case-insensitive).
func (r *Registry) Get(providerName string) (domain.Provider, error) {
	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[strings.ToLower(providerName)]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", providerName)
	}

	return provider, nil
}

// Ordered returns all providers sorted by ascending priority.
func (r *Registry) Ordered() []domain.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Provider, len(r.ordered))
	copy(out, r.ordered)
	return out
}
