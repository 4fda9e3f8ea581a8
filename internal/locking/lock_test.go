package locking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithKeyLockSerializesSameKey(t *testing.T) {
	l := NewKeyedLocker()
	ctx := context.Background()

	const workers = 16
	var (
		wg      sync.WaitGroup
		counter int
		inside  int
		maxSeen int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithKeyLock(ctx, "appointments", func(context.Context) error {
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				time.Sleep(time.Millisecond)
				counter++
				inside--
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
	assert.Equal(t, 1, maxSeen, "two goroutines held the same key at once")
}

func TestWithKeyLockIndependentKeys(t *testing.T) {
	l := NewKeyedLocker()
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = l.WithKeyLock(ctx, "a", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	// A different key is not blocked by the held one.
	done := make(chan struct{})
	go func() {
		_ = l.WithKeyLock(ctx, "b", func(context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key was blocked")
	}
	close(release)
}

func TestWithKeyLockPropagatesError(t *testing.T) {
	l := NewKeyedLocker()
	want := errors.New("boom")

	err := l.WithKeyLock(context.Background(), "k", func(context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)

	// The key is released after a failing section.
	err = l.WithKeyLock(context.Background(), "k", func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestWithKeyLockHonorsContext(t *testing.T) {
	l := NewKeyedLocker()

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = l.WithKeyLock(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.WithKeyLock(ctx, "k", func(context.Context) error {
		t.Fatal("critical section ran despite cancelled wait")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
