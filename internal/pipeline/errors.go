package pipeline

import "fmt"

// QuotaExceededError is returned when a non-premium user is at or over
// their cap. It carries the current numbers for display plus the contact
// channel for requesting more runs.
type QuotaExceededError struct {
	UsageCount   int
	MaxUsage     int
	ContactEmail string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("usage limit exceeded (%d/%d)", e.UsageCount, e.MaxUsage)
}

// ExternalServiceError wraps a hard failure of the question collector
// (missing credential or failed service call). An empty question list is
// not one of these.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("question collection failed: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// GenerationFailedError means every configured fallback model failed.
// The questions collected before generation started ride along so the
// failure response can still surface them.
type GenerationFailedError struct {
	PAA []string
	Err error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("all generation models failed: %v", e.Err)
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }
