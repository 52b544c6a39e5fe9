package anglify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastRetry(retries int) RetryConfig {
	return RetryConfig{
		MaxRetries: retries,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   20 * time.Millisecond,
	}
}

func TestWithRetry_FirstAttempt(t *testing.T) {
	calls := 0
	got, err := WithRetry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		return 42, nil
	})

	if err != nil || got != 42 {
		t.Fatalf("WithRetry = %d, %v", got, err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_RedisComingUp(t *testing.T) {
	cfg := fastRetry(3)

	var retries []int
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		retries = append(retries, attempt)
		if delay <= 0 {
			t.Errorf("retry %d has no backoff", attempt)
		}
	}

	calls := 0
	got, err := WithRetry(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &CacheError{Message: "failed to connect to redis", Retryable: true}
		}
		return "connected", nil
	})

	if err != nil || got != "connected" {
		t.Fatalf("WithRetry = %q, %v", got, err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", retries)
	}
}

func TestWithRetry_PermanentError(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		return "", &CacheError{Message: "invalid redis URL"}
	})

	var cacheErr *CacheError
	if !errors.As(err, &cacheErr) || cacheErr.Message != "invalid redis URL" {
		t.Fatalf("Expected the permanent error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for a permanent error, got %d", calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), fastRetry(2), func() (string, error) {
		calls++
		return "", &CacheError{Message: fmt.Sprintf("attempt %d", calls), Retryable: true}
	})

	if err == nil || err.Error() != "cache error: attempt 3" {
		t.Fatalf("Expected the last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls (1 + 2 retries), got %d", calls)
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &CacheError{Message: "connection refused", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Cancellation took %v; the backoff sleep should be interrupted", elapsed)
	}
}

func TestWithRetry_AlreadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := WithRetry(ctx, fastRetry(3), func() (string, error) {
		calls++
		return "ok", nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if calls != 0 {
		t.Errorf("fn should not run with a cancelled context, ran %d times", calls)
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{40, time.Second},
	}

	for _, tt := range tests {
		if got := cfg.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	if got := (RetryConfig{}).Backoff(3); got != 0 {
		t.Errorf("zero config Backoff = %v, want 0", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable cache error", &CacheError{Retryable: true}, true},
		{"permanent cache error", &CacheError{Retryable: false}, false},
		{"wrapped retryable cache error", fmt.Errorf("connect: %w", &CacheError{Retryable: true}), true},
		{"ping timeout", &CacheError{Cause: context.DeadlineExceeded, Retryable: true}, true},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 5 || cfg.BaseDelay != 500*time.Millisecond || cfg.MaxDelay != 8*time.Second {
		t.Errorf("DefaultRetryConfig() = %+v", cfg)
	}

	var total time.Duration
	for i := 0; i < cfg.MaxRetries; i++ {
		total += cfg.Backoff(i)
	}
	if total != 15500*time.Millisecond {
		t.Errorf("total backoff = %v, want 15.5s", total)
	}
}
