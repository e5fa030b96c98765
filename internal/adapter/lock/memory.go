package lock

import (
	"context"
	"sync"
)

// MemoryLocker serializes match runs inside one process
type MemoryLocker struct {
	sem chan struct{}
}

// NewMemoryLocker creates an unlocked MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{sem: make(chan struct{}, 1)}
}

// Lock waits for the lock or for ctx to be done. The returned unlock is safe to call more than once.
func (l *MemoryLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-l.sem })
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
