package monte

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "metsim"

// Metrics instruments Sampler runs with Prometheus collectors.
type Metrics struct {
	Candidates         prometheus.Histogram
	Draws              prometheus.Counter
	EmptyNeighborhoods prometheus.Counter
	RunSeconds         prometheus.Summary
}

// NewMetrics creates the sampler collectors and registers them with reg.
// Collectors that are already registered are left in place; other
// registration errors cause a panic. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sampler",
			Name:      "candidates",
			Help:      "Size of the candidate list gathered for each observation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}),
		Draws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sampler",
			Name:      "draws_total",
			Help:      "Number of random draws taken from non-empty candidate lists.",
		}),
		EmptyNeighborhoods: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sampler",
			Name:      "empty_neighborhoods_total",
			Help:      "Number of observations whose neighborhood held no candidates.",
		}),
		RunSeconds: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:  metricsNamespace,
			Subsystem:  "sampler",
			Name:       "run_seconds",
			Help:       "Wall time of a full Sample call.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
	}
	if reg != nil {
		mustRegisterOnce(reg, m.Candidates, m.Draws, m.EmptyNeighborhoods, m.RunSeconds)
	}
	return m
}

func mustRegisterOnce(reg prometheus.Registerer, cs ...prometheus.Collector) {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}

func (m *Metrics) observe(res *Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	for _, c := range res.CandidateCounts {
		m.Candidates.Observe(float64(c))
		if c == 0 {
			m.EmptyNeighborhoods.Inc()
		} else {
			m.Draws.Inc()
		}
	}
	m.RunSeconds.Observe(elapsed.Seconds())
}
