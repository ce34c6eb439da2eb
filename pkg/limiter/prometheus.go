package limiter

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder bridges MetricsRecorder to a prometheus.Registerer.
// Collectors are created lazily per metric name, with '.' and '-' rewritten
// to '_' to satisfy the Prometheus naming rules. Tags are not mapped to
// labels; the metric name alone identifies a series.
type PrometheusRecorder struct {
	reg       prometheus.Registerer
	namespace string

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	histograms map[string]prometheus.Histogram
}

// NewPrometheusRecorder constructs a recorder that registers its collectors
// on reg (prometheus.DefaultRegisterer when nil) under the given namespace.
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusRecorder{
		reg:        reg,
		namespace:  namespace,
		counters:   make(map[string]prometheus.Counter),
		histograms: make(map[string]prometheus.Histogram),
	}
}

func (p *PrometheusRecorder) Add(name string, value float64, tags map[string]string) {
	p.counter(name).Add(value)
}

func (p *PrometheusRecorder) Observe(name string, value float64, tags map[string]string) {
	p.histogram(name).Observe(value)
}

func (p *PrometheusRecorder) counter(name string) prometheus.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c
	}

	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: p.namespace,
		Name:      sanitizeMetricName(name),
		Help:      "Limiter counter " + name + ".",
	})
	if err := p.reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
				c = existing
			}
		}
		// Any other registration failure leaves the collector unregistered
		// but still usable; telemetry must not take the limiter down.
	}
	p.counters[name] = c
	return c
}

func (p *PrometheusRecorder) histogram(name string) prometheus.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h
	}

	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: p.namespace,
		Name:      sanitizeMetricName(name),
		Help:      "Limiter observation " + name + ".",
		Buckets:   prometheus.DefBuckets,
	})
	if err := p.reg.Register(h); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Histogram); ok {
				h = existing
			}
		}
	}
	p.histograms[name] = h
	return h
}

func sanitizeMetricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
