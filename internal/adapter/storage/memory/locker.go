package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"loan-ledger/internal/core/ports"
)

// ErrLockTimeout is returned when a key stays held past the wait budget.
var ErrLockTimeout = errors.New("lock wait exceeded")

// Locker is a process-local keyed mutex.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

// NewLocker returns a Locker that waits at most wait for a key.
func NewLocker(wait time.Duration) *Locker {
	return &Locker{held: make(map[string]chan struct{}), wait: wait}
}

type lease struct {
	l    *Locker
	key  string
	done chan struct{}
	once sync.Once
}

func (ls *lease) Release(context.Context) error {
	ls.once.Do(func() {
		ls.l.mu.Lock()
		defer ls.l.mu.Unlock()
		if ls.l.held[ls.key] == ls.done {
			delete(ls.l.held, ls.key)
		}
		close(ls.done)
	})
	return nil
}

// Acquire implements ports.Locker.
func (l *Locker) Acquire(ctx context.Context, key string) (ports.Lease, error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()
			return &lease{l: l, key: key, done: done}, nil
		}
		l.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrLockTimeout
		}
	}
}
