// Package chat provides the shared transport for OpenAI-compatible
// chat-completion APIs. Both vendor adapters sit on top of it; they differ
// only in base URL, default model, and credential configuration.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/observability"
)

const (
	plainTextMaxTokens   = 100
	plainTextTemperature = 0.7
)

// Config contains the vendor-specific transport settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout int // seconds
}

// Client issues structured-JSON and plain-text completions against one
// OpenAI-compatible endpoint.
type Client struct {
	api      openai.Client
	provider string
	model    string
}

// NewClient creates a chat client for the named provider. Retries are
// disabled at the SDK level; retry and fallback decisions belong to the
// classifier-driven service above.
func NewClient(provider string, cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}

	return &Client{
		api:      openai.NewClient(opts...),
		provider: provider,
		model:    cfg.Model,
	}
}

// GenerateQuestions requests a batch of structured questions and normalizes
// the response into validated question values.
func (c *Client) GenerateQuestions(ctx context.Context, prompt string, batchSize int) ([]domain.Question, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("requesting structured questions",
		observability.String("provider", c.provider),
		observability.Int("batch_size", batchSize),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	content, err := c.complete(ctx, params)
	if err != nil {
		return nil, err
	}

	questions, err := NormalizeQuestions(c.provider, []byte(content))
	if err != nil {
		return nil, err
	}

	logger.Debug("structured questions received",
		observability.String("provider", c.provider),
		observability.Int("count", len(questions)),
	)

	return questions, nil
}

// GenerateSingleQuestion is a convenience wrapper for a one-question batch.
func (c *Client) GenerateSingleQuestion(ctx context.Context, prompt string) (*domain.Question, error) {
	questions, err := c.GenerateQuestions(ctx, prompt, 1)
	if err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, &domain.UnexpectedShapeError{Provider: c.provider, Snippet: "empty question list"}
	}

	return &questions[0], nil
}

// GeneratePlainText requests a short free-text completion and returns the
// trimmed text.
func (c *Client) GeneratePlainText(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(plainTextMaxTokens),
		Temperature: openai.Float(plainTextTemperature),
	}

	content, err := c.complete(ctx, params)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// complete issues one completion call and returns the message content.
func (c *Client) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", c.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &domain.UnexpectedShapeError{Provider: c.provider, Snippet: "response has no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}

// wrapError types SDK failures so the classifier sees the raw status and
// body for HTTP errors, and the underlying cause for transport errors.
func (c *Client) wrapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &domain.ProviderError{
			Provider: c.provider,
			Status:   apierr.StatusCode,
			Body:     apierr.RawJSON(),
			Err:      err,
		}
	}

	return &domain.ProviderError{
		Provider: c.provider,
		Err:      err,
	}
}
