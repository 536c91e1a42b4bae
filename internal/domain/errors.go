package domain

import (
	"errors"
	"fmt"
)

// ErrNoProviders indicates no available provider could serve the request.
var ErrNoProviders = errors.New("no providers available")

// ErrNoOverride indicates no forced provider is currently set.
var ErrNoOverride = errors.New("no forced provider set")

// ErrProgressNotFound indicates no progress record exists for the job.
var ErrProgressNotFound = errors.New("progress record not found")

// ProviderError is a failure surfaced by a provider adapter.
// Status is the vendor HTTP status code, or 0 when no response was received
// (network failure, timeout). Body holds the raw response body text, which
// the classifier matches vendor phrases against.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider %s returned status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("provider %s request failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UnexpectedShapeError indicates a vendor response parsed as JSON but matched
// none of the accepted shapes (array, questions envelope, single question).
type UnexpectedShapeError struct {
	Provider string
	Snippet  string
}

func (e *UnexpectedShapeError) Error() string {
	return fmt.Sprintf("provider %s returned an unexpected response shape: %s", e.Provider, e.Snippet)
}
