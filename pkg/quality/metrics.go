package quality

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records run outcomes in Prometheus. A nil *Metrics is a no-op.
type Metrics struct {
	violations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics registers the validation metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		violations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataguard_rule_violations_total",
				Help: "Violations reported by rule and severity",
			},
			[]string{"rule", "severity"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataguard_rule_failures_total",
				Help: "Number of runs in which the rule failed",
			},
			[]string{"rule"},
		),
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataguard_runs_total",
				Help: "Validation runs by overall status",
			},
			[]string{"status"}, // passed, warned, failed
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dataguard_run_duration_seconds",
				Help:    "Time taken to evaluate all selected rules",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
	}
}

func (m *Metrics) observe(r *Report) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(r.Summary.Status)).Inc()
	m.duration.Observe(r.Duration.Seconds())
	for _, res := range r.Results {
		for _, v := range res.Violations {
			m.violations.WithLabelValues(string(res.Rule), string(v.Severity)).Inc()
		}
		if res.Status == StatusFailed {
			m.failures.WithLabelValues(string(res.Rule)).Inc()
		}
	}
}
