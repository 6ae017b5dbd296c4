package registry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for registry activity.
type Metrics struct {
	parses      prometheus.Counter
	parseErrors prometheus.Counter

	evals      *prometheus.CounterVec
	evalErrors *prometheus.CounterVec

	evalDuration prometheus.Histogram
}

// NewMetrics creates the registry collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		parses: factory.NewCounter(prometheus.CounterOpts{
			Name: "formula_parse_total",
			Help: "Total number of formula parse attempts",
		}),
		parseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "formula_parse_errors_total",
			Help: "Total number of formula parse failures",
		}),
		evals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formula_eval_total",
			Help: "Total number of formula evaluations",
		}, []string{"id"}),
		evalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formula_eval_errors_total",
			Help: "Total number of failed formula evaluations",
		}, []string{"id"}),
		evalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "formula_eval_duration_seconds",
			Help:    "Duration of formula evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
		}),
	}
}

func (m *Metrics) recordParse(err error) {
	m.parses.Inc()
	if err != nil {
		m.parseErrors.Inc()
	}
}

func (m *Metrics) recordEval(id string, d time.Duration, err error) {
	m.evals.WithLabelValues(id).Inc()
	if err != nil {
		m.evalErrors.WithLabelValues(id).Inc()
	}
	m.evalDuration.Observe(d.Seconds())
}
