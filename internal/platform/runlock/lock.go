// Package runlock provides a best-effort mutual exclusion for scheduled runs
// that may fire on several replicas at once.
package runlock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotAcquired = errors.New("run lock is held by another owner")

// Locker acquires a named lock for at most ttl. The returned release func is
// safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, err error)
}

// LocalLocker serialises runs inside one process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (l *LocalLocker) Acquire(_ context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiresAt, ok := l.held[name]; ok && now.Before(expiresAt) {
		return nil, ErrNotAcquired
	}
	expiresAt := now.Add(ttl)
	l.held[name] = expiresAt

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			if current, ok := l.held[name]; ok && current.Equal(expiresAt) {
				delete(l.held, name)
			}
			l.mu.Unlock()
		})
		return nil
	}, nil
}
