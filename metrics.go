package shardbench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "shardbench"

// Metrics holds the Prometheus collectors a Runner reports into.
type Metrics struct {
	Operations    *prometheus.CounterVec   // strategy, op
	RoundDuration *prometheus.HistogramVec // strategy
	MapSize       *prometheus.GaugeVec     // strategy
}

// NewMetrics creates and registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operations_total",
			Help:      "Map operations performed, by strategy and operation.",
		}, []string{"strategy", "op"}),
		RoundDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "round_duration_seconds",
			Help:      "Wall-clock duration of one workload round.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"strategy"}),
		MapSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "map_size",
			Help:      "Number of keys left in the map after the last round.",
		}, []string{"strategy"}),
	}
}

func (m *Metrics) observe(res Result) {
	s := string(res.Strategy)
	m.Operations.WithLabelValues(s, "insert").Add(float64(res.Inserts))
	m.Operations.WithLabelValues(s, "get").Add(float64(res.Gets))
	m.Operations.WithLabelValues(s, "hit").Add(float64(res.Hits))
	m.RoundDuration.WithLabelValues(s).Observe(res.Elapsed.Seconds())
	m.MapSize.WithLabelValues(s).Set(float64(res.Size))
}
