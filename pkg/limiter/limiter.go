package limiter

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInvalidConfiguration is returned by NewWindowLimiter when the window or
// the capacity is not positive.
var ErrInvalidConfiguration = errors.New("limiter: window and capacity must be positive")

// waiter is one blocked Acquire call. Its turn channel is closed exactly
// once, when the waiter reaches the head of the queue.
type waiter struct {
	turn chan struct{}
}

// WindowLimiter admits at most capacity callers within any trailing window.
//
// It records one timestamp per admission and prunes entries lazily as they
// age out of the window. Blocked callers queue in arrival order; only the
// head of the queue may claim the next freed slot, so admissions are FIFO.
// State is local to the process and is not shared across replicas.
type WindowLimiter struct {
	window   time.Duration
	capacity int

	now      func() time.Time
	recorder MetricsRecorder

	mu    sync.Mutex
	log   []time.Time // admission timestamps, oldest first
	queue []*waiter   // blocked callers, arrival order
}

// NewWindowLimiter constructs a WindowLimiter that admits at most capacity
// callers within any trailing interval of length window.
func NewWindowLimiter(window time.Duration, capacity int, opts ...Option) (*WindowLimiter, error) {
	if window <= 0 || capacity <= 0 {
		return nil, ErrInvalidConfiguration
	}

	l := &WindowLimiter{
		window:   window,
		capacity: capacity,
		now:      time.Now,
		recorder: &NoOpMetricsRecorder{},
		log:      make([]time.Time, 0, capacity),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Acquire blocks until the caller is admitted or ctx is done. It returns nil
// on admission and ctx.Err() on cancellation; there is no other outcome.
//
// The mutex is held only while the admission log is inspected or mutated,
// never across a sleep, so a waiting caller does not stall concurrent
// decisions. A cancelled waiter leaves no trace in the log.
func (l *WindowLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		l.recorder.Add(metricCancelled, 1, nil)
		return err
	}

	start := l.now()

	l.mu.Lock()
	if len(l.queue) == 0 {
		now := l.now()
		l.pruneLocked(now)
		if len(l.log) < l.capacity {
			l.log = append(l.log, now)
			l.mu.Unlock()
			l.recorder.Add(metricAdmitted, 1, nil)
			l.recorder.Observe(metricWait, now.Sub(start).Seconds(), nil)
			return nil
		}
	}

	w := &waiter{turn: make(chan struct{})}
	if len(l.queue) == 0 {
		close(w.turn)
	}
	l.queue = append(l.queue, w)
	l.mu.Unlock()

	for {
		select {
		case <-w.turn:
		case <-ctx.Done():
			l.abandon(w)
			l.recorder.Add(metricCancelled, 1, nil)
			return ctx.Err()
		}

		l.mu.Lock()
		if err := ctx.Err(); err != nil {
			l.removeLocked(w)
			l.mu.Unlock()
			l.recorder.Add(metricCancelled, 1, nil)
			return err
		}

		now := l.now()
		l.pruneLocked(now)
		if len(l.log) < l.capacity {
			l.log = append(l.log, now)
			l.removeLocked(w)
			l.mu.Unlock()
			l.recorder.Add(metricAdmitted, 1, nil)
			l.recorder.Observe(metricWait, now.Sub(start).Seconds(), nil)
			return nil
		}

		// Full window: the head sleeps until the oldest admission expires,
		// with the mutex released, then re-evaluates. The window may have
		// moved on and other waiters may have come or gone in the meantime,
		// so a blind append after the sleep would be wrong.
		wait := l.window - now.Sub(l.log[0])
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			l.abandon(w)
			l.recorder.Add(metricCancelled, 1, nil)
			return ctx.Err()
		}
	}
}

// TryAcquire reports whether a slot was claimed without waiting. It never
// jumps ahead of blocked callers: a probe fails while anyone is queued, even
// if the window has capacity to spare.
func (l *WindowLimiter) TryAcquire() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		now := l.now()
		l.pruneLocked(now)
		if len(l.log) < l.capacity {
			l.log = append(l.log, now)
			l.mu.Unlock()
			l.recorder.Add(metricAdmitted, 1, nil)
			return true
		}
	}
	l.mu.Unlock()
	l.recorder.Add(metricDenied, 1, nil)
	return false
}

// pruneLocked drops admissions that have aged out of the window. Callers
// must hold mu.
func (l *WindowLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.log[:0]
	for _, ts := range l.log {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.log = kept
}

// removeLocked takes w out of the queue and, when w was the head, promotes
// the next waiter by closing its turn channel. Each waiter is promoted at
// most once. Callers must hold mu.
func (l *WindowLimiter) removeLocked(w *waiter) {
	for i, q := range l.queue {
		if q != w {
			continue
		}
		copy(l.queue[i:], l.queue[i+1:])
		l.queue[len(l.queue)-1] = nil
		l.queue = l.queue[:len(l.queue)-1]
		if i == 0 && len(l.queue) > 0 {
			close(l.queue[0].turn)
		}
		return
	}
}

func (l *WindowLimiter) abandon(w *waiter) {
	l.mu.Lock()
	l.removeLocked(w)
	l.mu.Unlock()
}
