package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type ConfigurationError struct{ DashboardError }
type DataSourceError struct{ DashboardError }
type DatabaseError struct{ DashboardError }
type ValidationError struct{ DashboardError }

// NetworkError carries the HTTP status when the failure came from a response.
type NetworkError struct {
	DashboardError
	StatusCode int
}

// -----------------------------------------------------------------------------

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{DashboardError{Message: msg, Cause: cause}}
}

func NewDataSourceError(msg string, cause error) error {
	return &DataSourceError{DashboardError{Message: msg, Cause: cause}}
}

func NewDatabaseError(msg string, cause error) error {
	return &DatabaseError{DashboardError{Message: msg, Cause: cause}}
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{DashboardError{Message: fmt.Sprintf(format, args...)}}
}

func NewNetworkError(msg string, status int, cause error) error {
	return &NetworkError{DashboardError: DashboardError{Message: msg, Cause: cause}, StatusCode: status}
}

// -----------------------------------------------------------------------------

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// -----------------------------------------------------------------------------

// IsRetryable reports whether a request failure is worth repeating.
// Client errors other than 403, 408 and 429 are final.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.StatusCode >= 400 && netErr.StatusCode < 500 {
		return netErr.StatusCode == 408 || netErr.StatusCode == 429 || netErr.StatusCode == 403
	}
	return true
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn up to maxRetries+1 times. The wait before attempt n
// is baseDelay*n*n. onRetry, when set, runs before each repeat. Stops early on
// context cancellation or a non-retryable error.
func RetryWithBackoff[T any](
	ctx context.Context,
	maxRetries int,
	baseDelay time.Duration,
	onRetry func(attempt int, lastErr error),
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if onRetry != nil {
				onRetry(attempt, lastErr)
			}
			delay := baseDelay * time.Duration(attempt*attempt)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsRetryable(err) {
			break
		}
	}

	return zero, lastErr
}
