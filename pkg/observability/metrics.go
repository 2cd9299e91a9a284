package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Runs       *prometheus.CounterVec
	Directives *prometheus.CounterVec
	Candidates *prometheus.CounterVec
	Mutations  *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "augur_runs_total",
				Help: "Ontology passes by final status",
			},
			[]string{"status"},
		),
		Directives: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "augur_directives_total",
				Help: "Directive executions by outcome",
			},
			[]string{"directive", "kind", "outcome"},
		),
		Candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "augur_candidates_total",
				Help: "Candidate tuples enumerated per directive",
			},
			[]string{"directive"},
		),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "augur_mutations_total",
				Help: "ABox changes by directive and effect",
			},
			[]string{"directive", "effect"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "augur_directive_duration_seconds",
				Help:    "Duration of directive executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"directive"},
		),
	}

	for _, c := range []prometheus.Collector{m.Runs, m.Directives, m.Candidates, m.Mutations, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(string(e.Status)).Inc()
		},
		OnDirectiveEnd: func(_ context.Context, e *domain.DirectiveEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.Directives.WithLabelValues(e.Directive, e.Kind.String(), outcome).Inc()
			m.Candidates.WithLabelValues(e.Directive).Add(float64(e.Candidates))
			m.Duration.WithLabelValues(e.Directive).Observe(e.Duration.Seconds())
		},
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			m.Mutations.WithLabelValues(e.Directive, string(e.Effect)).Inc()
		},
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
