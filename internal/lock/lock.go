// Package lock serializes chat turns per conversation so that two concurrent
// turns cannot both read the same context window.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned when a lock could not be acquired within the wait.
var ErrTimeout = errors.New("timed out waiting for lock")

// Locker hands out exclusive, keyed locks. The returned unlock func is safe to
// call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type slot struct {
	ch   chan struct{}
	refs int
}

type localLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

// NewLocalLocker returns a Locker for a single process. Slots are dropped as
// soon as nobody holds or waits for them.
func NewLocalLocker(wait time.Duration) Locker {
	return &localLocker{slots: make(map[string]*slot), wait: wait}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	// A free slot is taken without consulting the timer, so a zero wait still
	// succeeds when nobody holds the key.
	select {
	case s.ch <- struct{}{}:
		return l.unlocker(key, s), nil
	default:
	}
	if l.wait <= 0 {
		l.release(key, s)
		return nil, ErrTimeout
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return l.unlocker(key, s), nil
	case <-timer.C:
		l.release(key, s)
		return nil, ErrTimeout
	case <-ctx.Done():
		l.release(key, s)
		return nil, ctx.Err()
	}
}

func (l *localLocker) unlocker(key string, s *slot) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(key, s)
		})
	}
}

func (l *localLocker) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
