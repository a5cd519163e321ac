// ABOUTME: Single-threaded event loop for control state
// ABOUTME: Serializes callbacks posted from any goroutine onto one drainer
package loop

import (
	"context"
	"sync"
)

// Loop queues closures and runs them one at a time, in posting order.
// Post never blocks, so handle listeners may post from inside a callback.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
}

// New creates an empty loop
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post schedules fn. Posts after Close are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Wake signals that work is pending. Drivers other than Run (a TUI
// program, for instance) select on it and call Drain.
func (l *Loop) Wake() <-chan struct{} {
	return l.wake
}

// Drain runs everything queued, including work posted while draining.
// It returns the number of closures run and must only be called from
// the goroutine that owns the loop.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Pending returns the number of queued closures
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run drains the loop until ctx is done
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-l.wake:
			l.Drain()
		case <-ctx.Done():
			return
		}
	}
}

// Close drops queued work and rejects further posts
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.queue = nil
}
