package locking

import (
	"context"
	"fmt"
	"sync"
)

// Locker guards critical sections keyed by an arbitrary string. The service
// takes one key per record partition: all bookings and status rewrites share
// the appointments key, so a check-then-append cannot interleave with another
// append or with a full rewrite, and registrations share a patients or doctors
// key so the email-uniqueness check and the append stay atomic.
type Locker interface {
	WithKeyLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type keyedLocker struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

// NewKeyedLocker creates an in-process locker with one semaphore per key.
// The design assumes a single running process owns the data files, so no
// cross-process coordination is needed.
func NewKeyedLocker() Locker {
	return &keyedLocker{
		sems: make(map[string]chan struct{}),
	}
}

func (l *keyedLocker) WithKeyLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	sem := l.sem(key)

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("acquire lock for %q: %w", key, ctx.Err())
	}
	defer func() { <-sem }()

	return fn(ctx)
}

func (l *keyedLocker) sem(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.sems[key]
	if !ok {
		sem = make(chan struct{}, 1)
		l.sems[key] = sem
	}
	return sem
}
