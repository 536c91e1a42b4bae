// Package progress tracks generation job lifecycle state for polling clients.
//
// States advance starting(5) -> generating_title(10) -> generating_questions
// (10-90, linear in items completed) -> saving_questions(95) -> completed(100),
// or error(0) from any point. Terminal records are deleted after a grace
// period so a polling client has time to observe them.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/quizbooth/backend/internal/domain"
	"github.com/quizbooth/backend/internal/observability"
)

const (
	progressStarting    = 5
	progressTitle       = 10
	progressFloor       = 10
	progressCeiling     = 90
	progressSpan        = progressCeiling - progressFloor
	progressSaving      = 95
	progressDone        = 100
	cleanupTimeout      = 5 * time.Second
	DefaultCleanupGrace = 30 * time.Second
)

// Tracker writes progress records and schedules terminal-record cleanup.
type Tracker struct {
	store domain.ProgressStore
	grace time.Duration

	// schedule defaults to time.AfterFunc; tests substitute it to run
	// cleanup synchronously.
	schedule func(d time.Duration, f func())

	now func() time.Time
}

// NewTracker creates a tracker. A non-positive grace falls back to the
// default 30s window.
func NewTracker(store domain.ProgressStore, grace time.Duration) *Tracker {
	if grace <= 0 {
		grace = DefaultCleanupGrace
	}

	return &Tracker{
		store: store,
		grace: grace,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		now: time.Now,
	}
}

// Starting records the job-start phase.
func (t *Tracker) Starting(ctx context.Context, jobID string) error {
	return t.upsert(ctx, jobID, domain.ProgressStarting, progressStarting,
		"Starting question generation...", "")
}

// GeneratingTitle records the title-generation phase.
func (t *Tracker) GeneratingTitle(ctx context.Context, jobID string) error {
	return t.upsert(ctx, jobID, domain.ProgressGeneratingTitle, progressTitle,
		"Generating game title...", "")
}

// GeneratingQuestions records question-generation progress. When batching,
// the message carries the current and total batch numbers.
func (t *Tracker) GeneratingQuestions(ctx context.Context, jobID string, completed, total, batch, totalBatches int) error {
	message := fmt.Sprintf("Generated %d of %d questions", completed, total)
	if totalBatches > 1 {
		message = fmt.Sprintf("%s (batch %d of %d)", message, batch, totalBatches)
	}

	return t.upsert(ctx, jobID, domain.ProgressGeneratingQuestions,
		QuestionProgress(completed, total), message, "")
}

// SavingQuestions records the persistence phase.
func (t *Tracker) SavingQuestions(ctx context.Context, jobID string) error {
	return t.upsert(ctx, jobID, domain.ProgressSavingQuestions, progressSaving,
		"Saving questions...", "")
}

// Completed records the terminal success state and schedules cleanup.
func (t *Tracker) Completed(ctx context.Context, jobID, message string) error {
	if message == "" {
		message = "Question generation complete"
	}

	if err := t.upsert(ctx, jobID, domain.ProgressCompleted, progressDone, message, ""); err != nil {
		return err
	}

	t.scheduleCleanup(jobID)
	return nil
}

// Failed records the terminal error state and schedules cleanup.
func (t *Tracker) Failed(ctx context.Context, jobID, userMessage string) error {
	if userMessage == "" {
		userMessage = "Question generation failed"
	}

	if err := t.upsert(ctx, jobID, domain.ProgressError, 0, userMessage, userMessage); err != nil {
		return err
	}

	t.scheduleCleanup(jobID)
	return nil
}

// QuestionProgress maps items completed to the 10-90 band:
// min(10 + floor(80 * completed/total), 90).
func QuestionProgress(completed, total int) int {
	if total <= 0 {
		return progressFloor
	}
	if completed < 0 {
		completed = 0
	}

	p := progressFloor + (progressSpan*completed)/total
	if p > progressCeiling {
		p = progressCeiling
	}
	return p
}

func (t *Tracker) upsert(ctx context.Context, jobID string, status domain.ProgressStatus, pct int, message, errMsg string) error {
	record := &domain.ProgressRecord{
		JobID:     jobID,
		Status:    status,
		Progress:  pct,
		Message:   message,
		Error:     errMsg,
		UpdatedAt: t.now(),
	}

	if err := t.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to write progress for job %s: %w", jobID, err)
	}

	return nil
}

// scheduleCleanup deletes the record after the grace period. Cleanup runs
// detached from the request lifecycle; a slow or failed delete is logged and
// swallowed, never surfaced to the caller.
func (t *Tracker) scheduleCleanup(jobID string) {
	t.schedule(t.grace, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		if err := t.store.Delete(ctx, jobID); err != nil {
			observability.FromContext(ctx).Warn("failed to clean up progress record",
				observability.String("job_id", jobID),
				observability.Error(err),
			)
		}
	})
}
