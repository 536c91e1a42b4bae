package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quizbooth/backend/internal/domain"
)

const progressKeyPrefix = "quizbooth:progress:"

// ProgressStore implements domain.ProgressStore on Redis. Records are stored
// as JSON values keyed by job id; a full-record SET makes the upsert
// idempotent for identical writes.
type ProgressStore struct {
	client *redis.Client
}

// NewProgressStore creates a Redis-backed progress store.
func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

// Upsert writes the record, replacing any previous one for the same job.
func (s *ProgressStore) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	if record == nil {
		return errors.New("progress record cannot be nil")
	}
	if record.JobID == "" {
		return errors.New("progress record job id cannot be empty")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal progress record: %w", err)
	}

	if err := s.client.Set(ctx, progressKey(record.JobID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store progress record: %w", err)
	}

	return nil
}

// Get returns the record for a job, or domain.ErrProgressNotFound.
func (s *ProgressStore) Get(ctx context.Context, jobID string) (*domain.ProgressRecord, error) {
	if jobID == "" {
		return nil, errors.New("job id cannot be empty")
	}

	data, err := s.client.Get(ctx, progressKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to read progress record: %w", err)
	}

	var record domain.ProgressRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress record: %w", err)
	}

	return &record, nil
}

// Delete removes the record for a job. Deleting a missing record is a no-op.
func (s *ProgressStore) Delete(ctx context.Context, jobID string) error {
	if jobID == "" {
		return errors.New("job id cannot be empty")
	}

	if err := s.client.Del(ctx, progressKey(jobID)).Err(); err != nil {
		return fmt.Errorf("failed to delete progress record: %w", err)
	}

	return nil
}

func progressKey(jobID string) string {
	return progressKeyPrefix + jobID
}
