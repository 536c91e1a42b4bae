package generation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/generation"
)

// mockProvider is a scriptable domain.Provider.
type mockProvider struct {
	name      string
	priority  int
	available bool

	questions []domain.Question
	text      string
	err       error

	questionCalls int
	singleCalls   int
	textCalls     int
}

func (m *mockProvider) GenerateQuestions(_ context.Context, _ string, batchSize int) ([]domain.Question, error) {
	m.questionCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.questions != nil {
		return m.questions, nil
	}
	return makeQuestions(batchSize), nil
}

func (m *mockProvider) GenerateSingleQuestion(_ context.Context, _ string) (*domain.Question, error) {
	m.singleCalls++
	if m.err != nil {
		return nil, m.err
	}
	qs := makeQuestions(1)
	return &qs[0], nil
}

func (m *mockProvider) GeneratePlainText(_ context.Context, _ string) (string, error) {
	m.textCalls++
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockProvider) Name() string      { return m.name }
func (m *mockProvider) Priority() int     { return m.priority }
func (m *mockProvider) IsAvailable() bool { return m.available }

// mockRegistry serves a fixed ordered provider list.
type mockRegistry struct {
	providers []domain.Provider
}

func (r *mockRegistry) Register(domain.Provider) error { return nil }

func (r *mockRegistry) Get(name string) (domain.Provider, error) {
	for _, p := range r.providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("provider %s not found", name)
}

func (r *mockRegistry) Ordered() []domain.Provider { return r.providers }

// mockOverrides is an in-memory OverrideStore.
type mockOverrides struct {
	name   string
	getErr error
}

func (o *mockOverrides) Get(context.Context) (*domain.ProviderOverride, error) {
	if o.getErr != nil {
		return nil, o.getErr
	}
	if o.name == "" {
		return nil, domain.ErrNoOverride
	}
	return &domain.ProviderOverride{ProviderName: o.name}, nil
}

func (o *mockOverrides) Set(_ context.Context, name string) error { o.name = name; return nil }
func (o *mockOverrides) Clear(context.Context) error              { o.name = ""; return nil }

func makeQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, domain.Question{
			QuestionText:  fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		})
	}
	return qs
}

func rateLimitErr(provider string) error {
	return &domain.ProviderError{
		Provider: provider,
		Status:   429,
		Body:     "Rate Limit Reached",
		Err:      errors.New("429 from " + provider),
	}
}

func authErr(provider string) error {
	return &domain.ProviderError{
		Provider: provider,
		Status:   401,
		Body:     "authentication failed",
		Err:      errors.New("401 from " + provider),
	}
}

func TestGenerateQuestionsWithFallback(t *testing.T) {
	t.Run("should use the highest-priority available provider", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true}
		b := &mockProvider{name: "b", priority: 2, available: true}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a, b}}, &mockOverrides{}, nil)

		questions, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 5)

		require.NoError(t, err)
		require.Len(t, questions, 5)
		require.Equal(t, 1, a.questionCalls)
		require.Zero(t, b.questionCalls)
		require.Equal(t, "a", svc.LastUsedProvider())
	})

	t.Run("should fall back when the classification permits it", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true, err: rateLimitErr("a")}
		b := &mockProvider{name: "b", priority: 2, available: true}

		var switches [][2]string
		svc := generation.NewService(
			&mockRegistry{providers: []domain.Provider{a, b}},
			&mockOverrides{},
			func(_ context.Context, from, to string) {
				switches = append(switches, [2]string{from, to})
			},
		)

		questions, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 3)

		require.NoError(t, err)
		require.Len(t, questions, 3)
		require.Equal(t, 1, a.questionCalls)
		require.Equal(t, 1, b.questionCalls)
		require.Equal(t, [][2]string{{"a", "b"}}, switches)
		require.Equal(t, "b", svc.LastUsedProvider())
	})

	t.Run("should not fall back on authentication failures", func(t *testing.T) {
		aErr := authErr("a")
		a := &mockProvider{name: "a", priority: 1, available: true, err: aErr}
		b := &mockProvider{name: "b", priority: 2, available: true}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a, b}}, &mockOverrides{}, nil)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 3)

		require.Same(t, aErr, err)
		require.Zero(t, b.questionCalls)
	})

	t.Run("should skip unavailable providers", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: false}
		b := &mockProvider{name: "b", priority: 2, available: true}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a, b}}, &mockOverrides{}, nil)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 2)

		require.NoError(t, err)
		require.Zero(t, a.questionCalls)
		require.Equal(t, 1, b.questionCalls)
	})

	t.Run("should return the last error when every provider fails", func(t *testing.T) {
		bErr := rateLimitErr("b")
		a := &mockProvider{name: "a", priority: 1, available: true, err: rateLimitErr("a")}
		b := &mockProvider{name: "b", priority: 2, available: true, err: bErr}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a, b}}, &mockOverrides{}, nil)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 2)

		require.Same(t, bErr, err)
	})

	t.Run("should report no providers when none are available", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: false}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a}}, &mockOverrides{}, nil)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 2)

		require.ErrorIs(t, err, domain.ErrNoProviders)
	})

	t.Run("should continue without override when the store fails", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true}
		svc := generation.NewService(
			&mockRegistry{providers: []domain.Provider{a}},
			&mockOverrides{getErr: errors.New("redis down")},
			nil,
		)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 2)

		require.NoError(t, err)
		require.Equal(t, 1, a.questionCalls)
	})
}

func TestForcedProvider(t *testing.T) {
	t.Run("should pin all calls to the forced provider", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true}
		b := &mockProvider{name: "b", priority: 2, available: true, text: "Trivia Night"}
		svc := generation.NewService(
			&mockRegistry{providers: []domain.Provider{a, b}},
			&mockOverrides{name: "b"},
			nil,
		)

		_, qErr := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 3)
		_, sErr := svc.GenerateSingleQuestionWithFallback(context.Background(), "prompt")
		text, tErr := svc.GeneratePlainTextWithFallback(context.Background(), "prompt")

		require.NoError(t, qErr)
		require.NoError(t, sErr)
		require.NoError(t, tErr)
		require.Equal(t, "Trivia Night", text)
		require.Zero(t, a.questionCalls+a.singleCalls+a.textCalls)
		require.Equal(t, 1, b.questionCalls)
		require.Equal(t, 1, b.singleCalls)
		require.Equal(t, 1, b.textCalls)
	})

	t.Run("should rethrow the forced provider's error without fallback", func(t *testing.T) {
		xErr := rateLimitErr("x")
		x := &mockProvider{name: "x", priority: 1, available: true, err: xErr}
		y := &mockProvider{name: "y", priority: 2, available: true}
		svc := generation.NewService(
			&mockRegistry{providers: []domain.Provider{x, y}},
			&mockOverrides{name: "x"},
			nil,
		)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 3)

		require.Same(t, xErr, err)
		require.Zero(t, y.questionCalls)
	})

	t.Run("should fail when the forced provider is not registered", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true}
		svc := generation.NewService(
			&mockRegistry{providers: []domain.Provider{a}},
			&mockOverrides{name: "ghost"},
			nil,
		)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 3)

		require.Error(t, err)
		require.Contains(t, err.Error(), "not registered")
		require.Zero(t, a.questionCalls)
	})

	t.Run("should fail when the forced provider is unavailable", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: false}
		svc := generation.NewService(
			&mockRegistry{providers: []domain.Provider{a}},
			&mockOverrides{name: "a"},
			nil,
		)

		_, err := svc.GenerateQuestionsWithFallback(context.Background(), "prompt", 3)

		require.Error(t, err)
		require.Contains(t, err.Error(), "not available")
	})
}

func TestFallbackForOtherOperations(t *testing.T) {
	t.Run("should fall back for single question generation", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true, err: rateLimitErr("a")}
		b := &mockProvider{name: "b", priority: 2, available: true}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a, b}}, &mockOverrides{}, nil)

		question, err := svc.GenerateSingleQuestionWithFallback(context.Background(), "prompt")

		require.NoError(t, err)
		require.NotNil(t, question)
		require.Equal(t, 1, a.singleCalls)
		require.Equal(t, 1, b.singleCalls)
	})

	t.Run("should fall back for plain text generation", func(t *testing.T) {
		a := &mockProvider{name: "a", priority: 1, available: true, err: rateLimitErr("a")}
		b := &mockProvider{name: "b", priority: 2, available: true, text: "Booth Blitz"}
		svc := generation.NewService(&mockRegistry{providers: []domain.Provider{a, b}}, &mockOverrides{}, nil)

		text, err := svc.GeneratePlainTextWithFallback(context.Background(), "prompt")

		require.NoError(t, err)
		require.Equal(t, "Booth Blitz", text)
	})
}
