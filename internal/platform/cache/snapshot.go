package cache

import (
	"context"
	"sync"
	"time"
)

// Snapshot holds the most recent completed value of a periodically produced
// result. Readers can take what is there or wait for the next publish.
type Snapshot[T any] struct {
	mu          sync.Mutex
	value       T
	present     bool
	publishedAt time.Time
	version     uint64
	next        chan struct{}
	now         func() time.Time
}

func NewSnapshot[T any]() *Snapshot[T] {
	return &Snapshot[T]{
		next: make(chan struct{}),
		now:  time.Now,
	}
}

// Get returns the current value if one has been published since the last
// invalidation.
func (s *Snapshot[T]) Get() (T, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.publishedAt, s.present
}

// Publish stores value and wakes every waiter.
func (s *Snapshot[T]) Publish(value T) {
	s.mu.Lock()
	s.value = value
	s.present = true
	s.publishedAt = s.now()
	s.version++
	close(s.next)
	s.next = make(chan struct{})
	s.mu.Unlock()
}

// Invalidate drops the current value. Pending waiters keep waiting for the
// next publish.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	var zero T
	s.value = zero
	s.present = false
	s.publishedAt = time.Time{}
	s.mu.Unlock()
}

// Await blocks until the next Publish after the call, or until ctx is done.
func (s *Snapshot[T]) Await(ctx context.Context) (T, error) {
	s.mu.Lock()
	next := s.next
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-next:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// GetOrAwait returns the current value, or waits for the next one.
func (s *Snapshot[T]) GetOrAwait(ctx context.Context) (T, error) {
	if value, _, ok := s.Get(); ok {
		return value, nil
	}
	return s.Await(ctx)
}

func (s *Snapshot[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
