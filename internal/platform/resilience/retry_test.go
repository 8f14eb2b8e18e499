package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestRetryPolicy_GivesUpAfterMaxAttempts(t *testing.T) {
	cause := errors.New("rate limited")
	var waits []time.Duration
	policy := RetryPolicy{
		MaxAttempts: 3,
		DefaultWait: time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}

	calls := 0
	err := policy.Run(context.Background(), func(_ context.Context, _ int) error {
		calls++
		return &RetryableError{Err: cause, Wait: 2 * time.Second}
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(waits) != 2 || waits[0] != 2*time.Second {
		t.Fatalf("expected two waits of 2s, got %v", waits)
	}
}

func TestRetryPolicy_SucceedsOnSecondAttempt(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Sleep: noSleep}

	calls := 0
	err := policy.Run(context.Background(), func(_ context.Context, n int) error {
		calls++
		if n == 1 {
			return &RetryableError{Err: errors.New("busy")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryPolicy_NonRetryableReturnsImmediately(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Sleep: noSleep}
	cause := errors.New("not found")

	calls := 0
	err := policy.Run(context.Background(), func(_ context.Context, _ int) error {
		calls++
		return cause
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRetryPolicy_RespectsRunBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Sleep: noSleep}
	budget := NewRetryBudget(1)
	ctx := WithRetryBudget(context.Background(), budget)

	calls := 0
	err := policy.Run(ctx, func(_ context.Context, _ int) error {
		calls++
		return &RetryableError{Err: errors.New("rate limited")}
	})
	if !errors.Is(err, ErrRetryBudgetExhausted) {
		t.Fatalf("expected budget exhausted error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts with a budget of one retry, got %d", calls)
	}
	if budget.Used() != 1 {
		t.Fatalf("expected one retry consumed, got %d", budget.Used())
	}
}

func TestRetryPolicy_StopsOnContextCancel(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Sleep: SleepContext}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := policy.Run(ctx, func(_ context.Context, _ int) error {
		return &RetryableError{Err: errors.New("busy"), Wait: time.Hour}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "absent", value: "", want: time.Second},
		{name: "seconds", value: "7", want: 7 * time.Second},
		{name: "zero", value: "0", want: 0},
		{name: "negative", value: "-3", want: time.Second},
		{name: "garbage", value: "soon", want: time.Second},
		{name: "http date", value: now.Add(5 * time.Second).Format(http.TimeFormat), want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.value != "" {
				header.Set("Retry-After", tt.value)
			}
			if got := RetryAfter(header, now, time.Second); got != tt.want {
				t.Fatalf("RetryAfter(%q)=%s want=%s", tt.value, got, tt.want)
			}
		})
	}
}
