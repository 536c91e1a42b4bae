// Package openai provides the OpenAI provider adapter, the second vendor in
// the fallback order.
package openai

import (
	"context"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/provider/chat"
)

const providerName = "openai"

// Provider implements the domain.Provider interface for OpenAI.
type Provider struct {
	chat      *chat.Client
	priority  int
	available bool
}

// NewProvider creates an OpenAI provider. It is constructed even without an
// API key so the registry stays complete; availability gates its use.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		chat: chat.NewClient(providerName, chat.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}),
		priority:  cfg.Priority,
		available: cfg.APIKey != "",
	}
}

// GenerateQuestions asks OpenAI for a batch of structured questions.
func (p *Provider) GenerateQuestions(ctx context.Context, prompt string, batchSize int) ([]domain.Question, error) {
	return p.chat.GenerateQuestions(ctx, prompt, batchSize)
}

// GenerateSingleQuestion asks OpenAI for exactly one question.
func (p *Provider) GenerateSingleQuestion(ctx context.Context, prompt string) (*domain.Question, error) {
	return p.chat.GenerateSingleQuestion(ctx, prompt)
}

// GeneratePlainText asks OpenAI for a short free-text completion.
func (p *Provider) GeneratePlainText(ctx context.Context, prompt string) (string, error) {
	return p.chat.GeneratePlainText(ctx, prompt)
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// Priority returns the fallback order; lower is tried first.
func (p *Provider) Priority() int { return p.priority }

// IsAvailable reports whether the OpenAI credential is configured.
func (p *Provider) IsAvailable() bool { return p.available }
