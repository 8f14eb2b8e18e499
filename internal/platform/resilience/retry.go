package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

// RetryPolicy retries an operation that signals a RetryableError, waiting
// for the server-provided hint between attempts.
type RetryPolicy struct {
	// MaxAttempts counts the first call.
	MaxAttempts int
	DefaultWait time.Duration
	MaxWait     time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// RetryableError marks an attempt failure that may be retried after Wait.
type RetryableError struct {
	Err  error
	Wait time.Duration
}

func (e *RetryableError) Error() string {
	if e == nil || e.Err == nil {
		return "retryable failure"
	}
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		DefaultWait: time.Second,
		MaxWait:     time.Minute,
		Sleep:       SleepContext,
	}
}

func NormalizeRetryPolicy(p RetryPolicy) RetryPolicy {
	defaults := DefaultRetryPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = defaults.MaxAttempts
	}
	if p.DefaultWait <= 0 {
		p.DefaultWait = defaults.DefaultWait
	}
	if p.MaxWait <= 0 {
		p.MaxWait = defaults.MaxWait
	}
	if p.Sleep == nil {
		p.Sleep = defaults.Sleep
	}
	return p
}

// Run calls attempt until it succeeds, returns a non-retryable error, or the
// attempts run out. Each retry also takes a token from the RetryBudget
// carried by ctx, if any. The returned error is the last attempt's cause.
func (p RetryPolicy) Run(ctx context.Context, attempt func(ctx context.Context, n int) error) error {
	p = NormalizeRetryPolicy(p)
	budget := RetryBudgetFromContext(ctx)

	for n := 1; ; n++ {
		err := attempt(ctx, n)
		if err == nil {
			return nil
		}

		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			return err
		}
		if n >= p.MaxAttempts {
			return retryable.Err
		}
		if !budget.Take() {
			return fmt.Errorf("%w: %w", ErrRetryBudgetExhausted, retryable.Err)
		}

		wait := retryable.Wait
		if wait < 0 {
			wait = p.DefaultWait
		}
		if wait > p.MaxWait {
			wait = p.MaxWait
		}
		if err := p.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// RetryAfter reads a Retry-After header given as delay-seconds or an HTTP
// date. Absent or malformed values yield fallback.
func RetryAfter(header http.Header, now time.Time, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds < 0 {
			return fallback
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return fallback
}

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
