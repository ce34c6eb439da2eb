package limiter

import "time"

// Option configures a WindowLimiter.
type Option func(*WindowLimiter)

// WithClock sets the timestamp source (default time.Now). Tests use it to
// drive the window deterministically; it does not affect how long a blocked
// caller actually sleeps.
func WithClock(now func() time.Time) Option {
	return func(l *WindowLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRecorder injects a custom metrics backend.
func WithRecorder(r MetricsRecorder) Option {
	return func(l *WindowLimiter) {
		if r != nil {
			l.recorder = r
		}
	}
}
