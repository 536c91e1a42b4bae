package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/observability"
	"github.com/quizbooth/backend/internal/progress"
)

const (
	// DefaultBatchSize bounds one vendor call so a whole job fits inside a
	// serverless-style execution budget.
	DefaultBatchSize = 5

	// DefaultBatchDelay spaces consecutive vendor calls to avoid
	// rate-limit bursts.
	DefaultBatchDelay = 1 * time.Second
)

// QuestionGenerator is the slice of the fallback router the orchestrator
// depends on.
type QuestionGenerator interface {
	GenerateQuestionsWithFallback(ctx context.Context, prompt string, batchSize int) ([]domain.Question, error)
}

// Orchestrator splits a requested question count into fixed-size batches,
// sequences calls to the generation service, and drives progress updates.
// Batches run strictly in order within one job; there is no internal
// parallelism.
type Orchestrator struct {
	service   QuestionGenerator
	tracker   *progress.Tracker
	batchSize int
	delay     time.Duration

	// sleep defaults to a context-aware wait; tests substitute it.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator creates a batch orchestrator (DI constructor).
// Non-positive batchSize or delay fall back to the defaults.
func NewOrchestrator(service QuestionGenerator, tracker *progress.Tracker, batchSize int, delay time.Duration) *Orchestrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if delay <= 0 {
		delay = DefaultBatchDelay
	}

	return &Orchestrator{
		service:   service,
		tracker:   tracker,
		batchSize: batchSize,
		delay:     delay,
		sleep:     sleepContext,
	}
}

// GenerateInBatches generates totalCount questions in batches of batchSize
// (the orchestrator default when non-positive).
//
// Failure policy: a failed batch aborts the job only when nothing has been
// generated yet. Once earlier batches have produced questions, a later
// failure is logged and skipped, and the caller receives the partial result.
// Every returned item is validated before acceptance; one malformed item
// fails the whole batch that produced it.
func (o *Orchestrator) GenerateInBatches(ctx context.Context, jobID string, gctx domain.GenerationContext, totalCount, batchSize int) ([]domain.Question, error) {
	if totalCount <= 0 {
		return nil, fmt.Errorf("total question count must be positive, got %d", totalCount)
	}
	if batchSize <= 0 {
		batchSize = o.batchSize
	}

	ctx = observability.WithJobID(ctx, jobID)
	logger := observability.FromContext(ctx)

	batches := (totalCount + batchSize - 1) / batchSize
	accumulated := make([]domain.Question, 0, totalCount)

	logger.Info("starting batched generation",
		observability.Int("total", totalCount),
		observability.Int("batch_size", batchSize),
		observability.Int("batches", batches),
	)

	for i := 0; i < batches; i++ {
		currentBatchSize := batchSize
		if remaining := totalCount - i*batchSize; remaining < currentBatchSize {
			currentBatchSize = remaining
		}

		if err := o.tracker.GeneratingQuestions(ctx, jobID, len(accumulated), totalCount, i+1, batches); err != nil {
			logger.Warn("failed to update progress", observability.Error(err))
		}

		prompt := BuildQuestionPrompt(gctx, currentBatchSize, i+1, batches)

		questions, err := o.service.GenerateQuestionsWithFallback(ctx, prompt, currentBatchSize)
		if err == nil {
			err = domain.ValidateQuestions(questions)
		}

		switch {
		case err == nil:
			accumulated = append(accumulated, questions...)

		case len(accumulated) > 0:
			// Partial success: keep what earlier batches produced.
			logger.Warn("batch failed, continuing with partial results",
				observability.Int("batch", i+1),
				observability.Int("generated_so_far", len(accumulated)),
				observability.Error(err),
			)

		default:
			return nil, fmt.Errorf("batch %d of %d failed with no prior results: %w", i+1, batches, err)
		}

		if i < batches-1 {
			if err := o.sleep(ctx, o.delay); err != nil {
				return accumulated, err
			}
		}
	}

	if err := o.tracker.GeneratingQuestions(ctx, jobID, len(accumulated), totalCount, batches, batches); err != nil {
		logger.Warn("failed to update progress", observability.Error(err))
	}

	logger.Info("batched generation finished",
		observability.Int("requested", totalCount),
		observability.Int("generated", len(accumulated)),
	)

	return accumulated, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
