package pipeline

import (
	"errors"
	"math/rand"
	"time"
)

// MaxRetries bounds how many attempts a document gets when its
// failures are transient.
const MaxRetries = 3

// maxBackoff caps the exponential retry delay.
const maxBackoff = 30 * time.Second

// RetryableError marks a failure as transient: the document itself is
// fine, so another attempt may succeed.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether any error in the chain is transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff returns the delay before the given 0-based retry attempt:
// one second doubled per attempt, capped at 30 seconds, plus up to
// half the base again in jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * time.Second
	if base <= 0 || base > maxBackoff {
		base = maxBackoff
	}
	return base + time.Duration(rand.Int63n(int64(base)/2))
}
