package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// detailFor picks the most specific label a caller supplied for a counter.
func detailFor(labels map[string]string) string {
	for _, key := range []string{"reason", "kind", "success"} {
		if v, ok := labels[key]; ok {
			return v
		}
	}
	return ""
}

type PrometheusRecorder struct {
	counters  *prometheus.CounterVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the swapflow metric families on the given
// registerer, or the default one when nil.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapflow",
			Name:      "events_total",
			Help:      "swap and facilitator event counters",
		},
		[]string{"type", "network", "detail"},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "swapflow",
			Name:      "operation_seconds",
			Help:      "swap and settlement operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "network"},
	)

	reg.MustRegister(counters, histogram)

	return &PrometheusRecorder{
		counters:  counters,
		histogram: histogram,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.counters.With(prometheus.Labels{
		"type":    name,
		"network": labels["network"],
		"detail":  detailFor(labels),
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.histogram.With(prometheus.Labels{
		"operation": name,
		"network":   labels["network"],
	}).Observe(d.Seconds())
}
