package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/progress"
)

// scriptedGenerator returns canned results per call, in order.
type scriptedGenerator struct {
	results []scriptedResult

	calls      int
	batchSizes []int
	prompts    []string
}

type scriptedResult struct {
	questions []domain.Question
	err       error
}

func (g *scriptedGenerator) GenerateQuestionsWithFallback(_ context.Context, prompt string, batchSize int) ([]domain.Question, error) {
	g.calls++
	g.batchSizes = append(g.batchSizes, batchSize)
	g.prompts = append(g.prompts, prompt)

	if len(g.results) > 0 {
		r := g.results[0]
		g.results = g.results[1:]
		if r.err != nil {
			return nil, r.err
		}
		if r.questions != nil {
			return r.questions, nil
		}
	}
	return batchQuestions(batchSize), nil
}

// recordingStore captures progress writes in order.
type recordingStore struct {
	mu      sync.Mutex
	records []domain.ProgressRecord
}

func (s *recordingStore) Upsert(_ context.Context, record *domain.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

func (s *recordingStore) Get(context.Context, string) (*domain.ProgressRecord, error) {
	return nil, domain.ErrProgressNotFound
}

func (s *recordingStore) Delete(context.Context, string) error { return nil }

func (s *recordingStore) progressValues() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := make([]int, 0, len(s.records))
	for _, r := range s.records {
		values = append(values, r.Progress)
	}
	return values
}

func batchQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, domain.Question{
			QuestionText:  fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
		})
	}
	return qs
}

func newTestOrchestrator(gen *scriptedGenerator, store *recordingStore) (*Orchestrator, *int) {
	tracker := progress.NewTracker(store, time.Minute)
	o := NewOrchestrator(gen, tracker, 5, time.Second)

	sleeps := 0
	o.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}
	return o, &sleeps
}

func TestGenerateInBatches(t *testing.T) {
	gctx := domain.GenerationContext{CompanyName: "Acme", Industry: "Robotics"}

	t.Run("should split the requested count into ceiling batches", func(t *testing.T) {
		gen := &scriptedGenerator{}
		store := &recordingStore{}
		o, sleeps := newTestOrchestrator(gen, store)

		questions, err := o.GenerateInBatches(context.Background(), "job-1", gctx, 12, 5)

		require.NoError(t, err)
		require.Len(t, questions, 12)
		require.Equal(t, []int{5, 5, 2}, gen.batchSizes)
		require.Equal(t, 2, *sleeps, "no delay after the final batch")
	})

	t.Run("should drive progress monotonically up to the ceiling", func(t *testing.T) {
		gen := &scriptedGenerator{}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		_, err := o.GenerateInBatches(context.Background(), "job-2", gctx, 12, 5)

		require.NoError(t, err)
		values := store.progressValues()
		require.NotEmpty(t, values)
		for i := 1; i < len(values); i++ {
			require.GreaterOrEqual(t, values[i], values[i-1])
		}
		require.Equal(t, 90, values[len(values)-1])
	})

	t.Run("should label prompts with the batch position", func(t *testing.T) {
		gen := &scriptedGenerator{}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		_, err := o.GenerateInBatches(context.Background(), "job-3", gctx, 7, 5)

		require.NoError(t, err)
		require.Len(t, gen.prompts, 2)
		require.Contains(t, gen.prompts[0], "batch 1 of 2")
		require.Contains(t, gen.prompts[1], "batch 2 of 2")
	})

	t.Run("should return partial results when a later batch fails", func(t *testing.T) {
		gen := &scriptedGenerator{results: []scriptedResult{
			{questions: batchQuestions(5)},
			{err: errors.New("provider exhausted")},
		}}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		questions, err := o.GenerateInBatches(context.Background(), "job-4", gctx, 7, 5)

		require.NoError(t, err)
		require.Len(t, questions, 5)
		require.Equal(t, 2, gen.calls)
	})

	t.Run("should fail when the first batch produces nothing", func(t *testing.T) {
		genErr := errors.New("provider exhausted")
		gen := &scriptedGenerator{results: []scriptedResult{{err: genErr}}}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		_, err := o.GenerateInBatches(context.Background(), "job-5", gctx, 7, 5)

		require.ErrorIs(t, err, genErr)
		require.Equal(t, 1, gen.calls, "no further batches after an empty failure")
	})

	t.Run("should reject a batch containing a malformed question", func(t *testing.T) {
		bad := batchQuestions(5)
		bad[2].Options = bad[2].Options[:3]
		gen := &scriptedGenerator{results: []scriptedResult{
			{questions: batchQuestions(5)},
			{questions: bad},
		}}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		questions, err := o.GenerateInBatches(context.Background(), "job-6", gctx, 10, 5)

		require.NoError(t, err)
		require.Len(t, questions, 5, "malformed batch dropped, earlier batch kept")
	})

	t.Run("should reject a non-positive total count", func(t *testing.T) {
		gen := &scriptedGenerator{}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		_, err := o.GenerateInBatches(context.Background(), "job-7", gctx, 0, 5)

		require.Error(t, err)
		require.Zero(t, gen.calls)
	})

	t.Run("should fall back to the configured batch size", func(t *testing.T) {
		gen := &scriptedGenerator{}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)

		questions, err := o.GenerateInBatches(context.Background(), "job-8", gctx, 6, 0)

		require.NoError(t, err)
		require.Len(t, questions, 6)
		require.Equal(t, []int{5, 1}, gen.batchSizes)
	})

	t.Run("should stop between batches when the context is cancelled", func(t *testing.T) {
		gen := &scriptedGenerator{}
		store := &recordingStore{}
		o, _ := newTestOrchestrator(gen, store)
		o.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

		questions, err := o.GenerateInBatches(context.Background(), "job-9", gctx, 12, 5)

		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, questions, 5, "returns what was generated before cancellation")
	})
}
