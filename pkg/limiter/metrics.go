package limiter

// MetricsRecorder is the sink for limiter telemetry. Implementations must be
// safe for concurrent use and should return quickly; the limiter calls them
// synchronously on the admission path.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// Metric names emitted by WindowLimiter.
const (
	metricAdmitted  = "gate.admitted"
	metricDenied    = "gate.denied"
	metricCancelled = "gate.cancelled"
	metricWait      = "gate.wait_seconds"
)

type multiRecorder []MetricsRecorder

// MultiRecorder fans telemetry out to every given recorder, in order.
func MultiRecorder(recorders ...MetricsRecorder) MetricsRecorder {
	return multiRecorder(recorders)
}

func (m multiRecorder) Add(name string, value float64, tags map[string]string) {
	for _, r := range m {
		r.Add(name, value, tags)
	}
}

func (m multiRecorder) Observe(name string, value float64, tags map[string]string) {
	for _, r := range m {
		r.Observe(name, value, tags)
	}
}
