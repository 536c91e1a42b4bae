// Package generation contains the question-generation core: the fallback
// router across provider adapters, the batch orchestrator, and the prompt
// builder.
package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quizbooth/backend/internal/classify"
	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/observability"
)

// SwitchHook is invoked when the service advances from one provider to the
// next. It is an observability hook only and has no behavioral effect.
type SwitchHook func(ctx context.Context, fromProvider, toProvider string)

// Service routes generation calls across the priority-ordered providers,
// consulting the error classifier to decide whether a failure permits
// advancing to the next provider. A persisted forced-provider override,
// reloaded on every call, pins all traffic to one provider for diagnosis.
type Service struct {
	registry  domain.ProviderRegistry
	overrides domain.OverrideStore
	onSwitch  SwitchHook

	mu       sync.Mutex
	lastUsed string
}

// NewService creates the fallback router (DI constructor). onSwitch may be nil.
func NewService(registry domain.ProviderRegistry, overrides domain.OverrideStore, onSwitch SwitchHook) *Service {
	return &Service{
		registry:  registry,
		overrides: overrides,
		onSwitch:  onSwitch,
	}
}

// GenerateQuestionsWithFallback generates a batch of questions on the first
// provider that succeeds.
func (s *Service) GenerateQuestionsWithFallback(ctx context.Context, prompt string, batchSize int) ([]domain.Question, error) {
	return attempt(ctx, s, func(ctx context.Context, p domain.Provider) ([]domain.Question, error) {
		return p.GenerateQuestions(ctx, prompt, batchSize)
	})
}

// GenerateSingleQuestionWithFallback generates exactly one question on the
// first provider that succeeds.
func (s *Service) GenerateSingleQuestionWithFallback(ctx context.Context, prompt string) (*domain.Question, error) {
	return attempt(ctx, s, func(ctx context.Context, p domain.Provider) (*domain.Question, error) {
		return p.GenerateSingleQuestion(ctx, prompt)
	})
}

// GeneratePlainTextWithFallback generates a short free-text completion on the
// first provider that succeeds.
func (s *Service) GeneratePlainTextWithFallback(ctx context.Context, prompt string) (string, error) {
	return attempt(ctx, s, func(ctx context.Context, p domain.Provider) (string, error) {
		return p.GeneratePlainText(ctx, prompt)
	})
}

// LastUsedProvider returns the name of the provider that most recently
// served a successful call, or "" when none has.
func (s *Service) LastUsedProvider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Service) recordSuccess(name string) {
	s.mu.Lock()
	s.lastUsed = name
	s.mu.Unlock()
}

// attempt runs one generation call through the two-phase routing shared by
// all entry points: forced-override check first, then the priority walk with
// classifier-gated fallback.
func attempt[T any](ctx context.Context, s *Service, call func(context.Context, domain.Provider) (T, error)) (T, error) {
	var zero T
	logger := observability.FromContext(ctx)

	// Phase 1: forced override, reloaded from storage on every call so an
	// operator change takes effect immediately. A forced provider takes
	// precedence over robustness: its failure is rethrown unchanged.
	forced, err := s.loadForced(ctx)
	if err != nil {
		return zero, err
	}
	if forced != nil {
		logger.Info("using forced provider", observability.String("provider", forced.Name()))

		result, err := call(observability.WithProvider(ctx, forced.Name()), forced)
		if err != nil {
			return zero, err
		}

		s.recordSuccess(forced.Name())
		return result, nil
	}

	// Phase 2: priority walk.
	providers := s.registry.Ordered()

	var lastErr error
	for i, p := range providers {
		if !p.IsAvailable() {
			continue
		}

		result, err := call(observability.WithProvider(ctx, p.Name()), p)
		if err == nil {
			s.recordSuccess(p.Name())
			return result, nil
		}
		lastErr = err

		verdict := classify.FromError(err)
		next := nextAvailable(providers[i+1:])

		logger.Warn("provider call failed",
			observability.String("provider", p.Name()),
			observability.String("error_type", string(verdict.ErrorType)),
			observability.Bool("fallback_possible", verdict.FallbackPossible),
			observability.Error(err),
		)

		if !verdict.FallbackPossible || next == nil {
			return zero, err
		}

		if s.onSwitch != nil {
			s.onSwitch(ctx, p.Name(), next.Name())
		}
	}

	if lastErr != nil {
		return zero, lastErr
	}
	return zero, domain.ErrNoProviders
}

// loadForced resolves the persisted override to an adapter. Absence is not
// an error; a storage failure is logged and ignored so a flaky override
// store cannot take generation down. An override naming a missing or
// unavailable provider is an error: the facility exists for diagnosis and
// must not silently degrade into fallback.
func (s *Service) loadForced(ctx context.Context) (domain.Provider, error) {
	override, err := s.overrides.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoOverride) {
			return nil, nil
		}

		observability.FromContext(ctx).Warn("failed to load forced provider, continuing without override",
			observability.Error(err))
		return nil, nil
	}

	provider, err := s.registry.Get(override.ProviderName)
	if err != nil {
		return nil, fmt.Errorf("forced provider %q is not registered: %w", override.ProviderName, err)
	}

	if !provider.IsAvailable() {
		return nil, fmt.Errorf("forced provider %q is not available", override.ProviderName)
	}

	return provider, nil
}

func nextAvailable(providers []domain.Provider) domain.Provider {
	for _, p := range providers {
		if p.IsAvailable() {
			return p
		}
	}
	return nil
}
