package resilience

import (
	"context"
	"sync/atomic"
)

// RetryBudget caps the number of retries across many calls, e.g. one
// ingestion run. A nil budget is unlimited.
type RetryBudget struct {
	remaining atomic.Int64
	used      atomic.Int64
}

func NewRetryBudget(limit int) *RetryBudget {
	if limit <= 0 {
		return nil
	}
	b := &RetryBudget{}
	b.remaining.Store(int64(limit))
	return b
}

func (b *RetryBudget) Take() bool {
	if b == nil {
		return true
	}
	for {
		current := b.remaining.Load()
		if current <= 0 {
			return false
		}
		if b.remaining.CompareAndSwap(current, current-1) {
			b.used.Add(1)
			return true
		}
	}
}

func (b *RetryBudget) Used() int {
	if b == nil {
		return 0
	}
	return int(b.used.Load())
}

type retryBudgetKey struct{}

func WithRetryBudget(ctx context.Context, b *RetryBudget) context.Context {
	if b == nil {
		return ctx
	}
	return context.WithValue(ctx, retryBudgetKey{}, b)
}

func RetryBudgetFromContext(ctx context.Context) *RetryBudget {
	if ctx == nil {
		return nil
	}
	b, _ := ctx.Value(retryBudgetKey{}).(*RetryBudget)
	return b
}
