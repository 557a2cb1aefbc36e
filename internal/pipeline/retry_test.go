package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryableDetection(t *testing.T) {
	plain := errors.New("boom")
	if IsRetryable(plain) {
		t.Error("plain error reported retryable")
	}

	wrapped := Retryable(plain)
	if !IsRetryable(wrapped) {
		t.Error("wrapped error not reported retryable")
	}
	if !errors.Is(wrapped, plain) {
		t.Error("Retryable broke the error chain")
	}
	if !IsRetryable(fmt.Errorf("stage: %w", wrapped)) {
		t.Error("retryable marker lost through further wrapping")
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
}

func TestBackoffBounds(t *testing.T) {
	tests := []struct {
		attempt  int
		min, max time.Duration
	}{
		{0, time.Second, 1500 * time.Millisecond},
		{1, 2 * time.Second, 3 * time.Second},
		{2, 4 * time.Second, 6 * time.Second},
		{10, 30 * time.Second, 45 * time.Second},
	}

	for _, tt := range tests {
		for range 20 {
			d := Backoff(tt.attempt)
			if d < tt.min || d >= tt.max {
				t.Fatalf("Backoff(%d) = %v, want in [%v, %v)", tt.attempt, d, tt.min, tt.max)
			}
		}
	}
}
