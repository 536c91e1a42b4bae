// Package echo provides a testing provider that fabricates deterministic
// questions without external API calls. It sits at the lowest priority and
// is disabled unless explicitly enabled, so local development works without
// vendor credentials.
package echo

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/observability"
)

const providerName = "echo"

// Config contains echo provider configuration.
type Config struct {
	Enabled  bool `env:"ECHO_PROVIDER_ENABLED"  envDefault:"false"`
	Priority int  `env:"ECHO_PROVIDER_PRIORITY" envDefault:"99"`
}

// Provider implements the domain.Provider interface with canned output.
type Provider struct {
	enabled  bool
	priority int
}

// NewProvider creates a new echo provider.
// No credentials are required as this provider operates entirely in-memory.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		enabled:  cfg.Enabled,
		priority: cfg.Priority,
	}
}

// GenerateQuestions fabricates batchSize placeholder questions derived from
// the prompt. Output always satisfies the question invariants.
func (p *Provider) GenerateQuestions(ctx context.Context, prompt string, batchSize int) ([]domain.Question, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing question batch", observability.Int("batch_size", batchSize))

	topic := topicFromPrompt(prompt)

	questions := make([]domain.Question, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		questions = append(questions, domain.Question{
			QuestionText: fmt.Sprintf("Placeholder question %d about %s?", i+1, topic),
			Options: []string{
				fmt.Sprintf("Correct answer %d", i+1),
				fmt.Sprintf("Distractor %d-A", i+1),
				fmt.Sprintf("Distractor %d-B", i+1),
				fmt.Sprintf("Distractor %d-C", i+1),
			},
			CorrectAnswer: 0,
			Explanation:   "Placeholder explanation from the echo provider.",
		})
	}

	return questions, nil
}

// GenerateSingleQuestion fabricates exactly one placeholder question.
func (p *Provider) GenerateSingleQuestion(ctx context.Context, prompt string) (*domain.Question, error) {
	questions, err := p.GenerateQuestions(ctx, prompt, 1)
	if err != nil {
		return nil, err
	}
	return &questions[0], nil
}

// GeneratePlainText returns a canned title derived from the prompt.
func (p *Provider) GeneratePlainText(ctx context.Context, prompt string) (string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("echoing plain text")

	return fmt.Sprintf("%s Trivia Challenge", topicFromPrompt(prompt)), nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// Priority returns the fallback order; lower is tried first.
func (p *Provider) Priority() int { return p.priority }

// IsAvailable reports whether the echo provider is enabled.
func (p *Provider) IsAvailable() bool { return p.enabled }

// topicFromPrompt picks a short stable token from the prompt so echoed
// output varies across games but stays deterministic.
func topicFromPrompt(prompt string) string {
	fields := strings.Fields(prompt)
	if len(fields) == 0 {
		return "general knowledge"
	}

	const maxTokens = 3
	if len(fields) > maxTokens {
		fields = fields[:maxTokens]
	}
	return strings.Join(fields, " ")
}
