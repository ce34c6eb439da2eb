// Package limiter provides a blocking sliding-window admission gate for
// pacing outbound calls from a single process.
//
// The primary entry point is WindowLimiter:
//
//	gate, err := limiter.NewWindowLimiter(time.Second, 10)
//	if err != nil {
//		// invalid configuration
//	}
//	if err := gate.Acquire(ctx); err != nil {
//		// cancelled while waiting
//	}
//	// admitted: perform exactly one unit of work
//
// Acquire blocks until the caller may proceed, so callers need no retry or
// backoff logic of their own.
//
// # Overview
//
// This package implements a sliding window:
//
//   - Every admission is recorded with a timestamp.
//   - A caller is admitted when fewer than capacity admissions fall inside
//     the trailing window.
//   - Excess callers block until the oldest admission ages out.
//
// Unlike fixed-window counters, the trailing window cannot be gamed at
// bucket boundaries: a limit of "10 per second" means 10 admissions in any
// trailing second, not 10 per wall-clock second. Unlike token buckets, there
// is no burst credit to accumulate; the window is the whole policy.
//
// # Admission Order
//
// Blocked callers form a FIFO queue:
//
//   - A caller that began waiting earlier is admitted no later than one that
//     began waiting after it.
//   - New arrivals never jump ahead of queued callers, and neither does
//     TryAcquire.
//   - Ties among callers eligible at the same instant break by arrival
//     order.
//
// # Concurrency
//
// WindowLimiter is safe for concurrent use by multiple goroutines. One mutex
// guards the admission log and the waiter queue, and it is held only while a
// decision is made, never while a caller sleeps. One waiting caller
// therefore never serializes the others: they can still be evaluated, queue
// up behind it, or be admitted as capacity allows.
//
// # Context and Error Policy
//
// Acquire accepts a context.Context and returns its error when the caller is
// cancelled before admission. Cancellation is surgical: the waiter is
// removed from the queue, no admission is recorded on its behalf, and the
// timing of every other waiter is unchanged.
//
// Construction is the only other error source. NewWindowLimiter rejects a
// non-positive window or capacity with ErrInvalidConfiguration; a limiter
// that constructs successfully never fails an Acquire for any reason other
// than cancellation.
//
// # Instrumentation
//
// Telemetry goes through the MetricsRecorder interface. The limiter emits:
//
//   - "gate.admitted": counter, one per admission.
//   - "gate.denied": counter, one per failed TryAcquire.
//   - "gate.cancelled": counter, one per cancelled Acquire.
//   - "gate.wait_seconds": observation of the time a caller spent blocked.
//
// Three recorders ship with the package:
//
//   - NoOpMetricsRecorder: the default; does nothing.
//   - PrometheusRecorder: registers counters and histograms on a
//     prometheus.Registerer.
//   - RedisRecorder: a best-effort sink that accumulates counters in a Redis
//     hash. Write failures are dropped; telemetry never blocks or fails an
//     admission.
//
// # Configuration
//
// WindowLimiter is configured using the Functional Options pattern:
//
//	gate, err := limiter.NewWindowLimiter(time.Minute, 60,
//		limiter.WithRecorder(rec),
//	)
//
// Supported options:
//
//   - WithClock(func() time.Time): Sets the timestamp source (default
//     time.Now). Intended for tests.
//   - WithRecorder(MetricsRecorder): Injects a custom metrics backend.
package limiter
