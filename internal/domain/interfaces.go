package domain

import "context"

// Provider represents one external LLM vendor.
type Provider interface {
	// GenerateQuestions asks the vendor for a batch of structured questions.
	GenerateQuestions(ctx context.Context, prompt string, batchSize int) ([]Question, error)

	// GenerateSingleQuestion asks for exactly one question.
	GenerateSingleQuestion(ctx context.Context, prompt string) (*Question, error)

	// GeneratePlainText asks for a short free-text completion (e.g. a title).
	GeneratePlainText(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() string

	// Priority returns the fallback order; lower is tried first.
	Priority() int

	// IsAvailable reports whether the vendor credential is configured.
	// It must be pure: no network calls, no side effects.
	IsAvailable() bool
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(provider Provider) error

	// Get retrieves a provider by name.
	Get(providerName string) (Provider, error)

	// Ordered returns all providers sorted by ascending priority.
	Ordered() []Provider
}

// ProgressStore persists progress records for polling clients.
type ProgressStore interface {
	// Upsert writes the record, replacing any previous one for the same job.
	// Writing an identical record twice must leave the stored state identical.
	Upsert(ctx context.Context, record *ProgressRecord) error

	// Get returns the record for a job, or ErrProgressNotFound.
	Get(ctx context.Context, jobID string) (*ProgressRecord, error)

	// Delete removes the record for a job. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, jobID string) error
}

// OverrideStore persists the forced-provider override.
type OverrideStore interface {
	// Get returns the current override, or ErrNoOverride when none is set.
	Get(ctx context.Context) (*ProviderOverride, error)

	// Set pins all generation calls to the named provider.
	Set(ctx context.Context, providerName string) error

	// Clear removes the override.
	Clear(ctx context.Context) error
}
