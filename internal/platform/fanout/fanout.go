// Package fanout runs a list of independent tasks on a bounded worker pool.
package fanout

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const DefaultRateFraction = 0.8

// Run applies worker to every item with at most limit calls in flight and
// returns the results in input order. Submission blocks while the pool is
// full, so nothing is queued beyond items itself.
//
// When ctx is done dispatch stops; slots that were never dispatched hold the
// zero value of R and ctx.Err() is returned alongside the partial results.
func Run[T, R any](ctx context.Context, limit int, items []T, worker func(ctx context.Context, item T) R) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}
	if limit < 1 {
		limit = 1
	}
	if limit > len(items) {
		limit = len(items)
	}

	logger := logging.Default()
	pool, err := ants.NewPool(limit,
		ants.WithLogger(logger),
		ants.WithPanicHandler(func(rec any) {
			logger.ErrorContext(ctx, "fanout worker panicked", "panic", rec)
		}),
	)
	if err != nil {
		return results, fmt.Errorf("create fanout pool: %w", err)
	}
	defer pool.Release()

	var (
		wg          sync.WaitGroup
		dispatchErr error
	)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = worker(ctx, item)
		}); err != nil {
			wg.Done()
			dispatchErr = fmt.Errorf("submit fanout task %d: %w", i, err)
			break
		}
	}
	wg.Wait()

	return results, dispatchErr
}

// ConcurrencyFromRPM turns a requests-per-minute allowance into a worker
// ceiling: rpm/60 requests per second, scaled by fraction, never below 1.
func ConcurrencyFromRPM(rpm int, fraction float64) int {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultRateFraction
	}
	if rpm <= 0 {
		return 1
	}
	n := int(math.Floor(float64(rpm) / 60 * fraction))
	if n < 1 {
		return 1
	}
	return n
}
