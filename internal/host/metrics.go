package host

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the host's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	height   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "counter_host_calls_total",
			Help: "Contract calls handled by the host, by entry point, method and outcome.",
		}, []string{"entry", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "counter_host_call_duration_seconds",
			Help:    "Time spent running and committing a contract call.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"entry"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "counter_host_block_height",
			Help: "Height of the last committed block.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.calls, err = register(reg, m.calls); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.height, err = register(reg, m.height); err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses a collector registered by an earlier runtime on the same
// registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeCall(entry, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(entry, method, outcome).Inc()
	m.duration.WithLabelValues(entry).Observe(elapsed.Seconds())
}

func (m *Metrics) setHeight(height uint64) {
	if m == nil {
		return
	}
	m.height.Set(float64(height))
}
