package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizbooth/backend/internal/domain"
)

const overrideKey = "quizbooth:forced_provider"

// OverrideStore implements domain.OverrideStore on a single fixed Redis key.
type OverrideStore struct {
	client *redis.Client
}

// NewOverrideStore creates a Redis-backed override store.
func NewOverrideStore(client *redis.Client) *OverrideStore {
	return &OverrideStore{client: client}
}

// Get returns the current override, or domain.ErrNoOverride when unset.
func (s *OverrideStore) Get(ctx context.Context) (*domain.ProviderOverride, error) {
	data, err := s.client.Get(ctx, overrideKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoOverride
		}
		return nil, fmt.Errorf("failed to read forced provider: %w", err)
	}

	var override domain.ProviderOverride
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forced provider: %w", err)
	}

	if override.ProviderName == "" {
		return nil, domain.ErrNoOverride
	}

	return &override, nil
}

// Set pins all generation calls to the named provider.
func (s *OverrideStore) Set(ctx context.Context, providerName string) error {
	if providerName == "" {
		return errors.New("provider name cannot be empty")
	}

	data, err := json.Marshal(domain.ProviderOverride{
		ProviderName: providerName,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal forced provider: %w", err)
	}

	if err := s.client.Set(ctx, overrideKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store forced provider: %w", err)
	}

	return nil
}

// Clear removes the override.
func (s *OverrideStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, overrideKey).Err(); err != nil {
		return fmt.Errorf("failed to clear forced provider: %w", err)
	}

	return nil
}
