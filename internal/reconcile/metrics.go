package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// Metrics records lookup latency and run outcomes. A nil *Metrics records nothing.
type Metrics struct {
	lookups     *prometheus.HistogramVec
	rows        *prometheus.CounterVec
	evaluations *prometheus.CounterVec
}

// NewMetrics creates the reconciliation collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		lookups: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconcile_lookup_duration_seconds",
				Help:    "Duration of ledger lookups.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"lookup", "result"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_rows_total",
				Help: "Negative invoice rows processed, by outcome.",
			},
			[]string{"outcome"},
		),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_evaluations_total",
				Help: "Resolved documents, by evaluation label.",
			},
			[]string{"evaluation"},
		),
	}

	for _, c := range []prometheus.Collector{m.lookups, m.rows, m.evaluations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeLookup(lookup string, took time.Duration, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.lookups.WithLabelValues(lookup, result).Observe(took.Seconds())
}

func (m *Metrics) observeRow(doc *document.Document) {
	if m == nil {
		return
	}

	if doc == nil {
		m.rows.WithLabelValues("dropped").Inc()
		return
	}

	m.rows.WithLabelValues("resolved").Inc()
	m.evaluations.WithLabelValues(doc.Evaluation.String()).Inc()
}
