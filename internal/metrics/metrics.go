package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MorningRadar/internal/model"
)

// Registry holds all Prometheus metrics for MorningRadar.
type Registry struct {
	reg *prometheus.Registry

	Score         prometheus.Gauge
	Band          prometheus.Gauge
	Coverage      prometheus.Gauge
	Contribution  *prometheus.GaugeVec
	FetchFailures *prometheus.CounterVec
	Narratives    *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	Cycles        prometheus.Counter
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radar_risk_score",
			Help: "Latest composite market risk score (0-100)",
		}),
		Band: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radar_risk_band",
			Help: "Rank of the latest risk band, 0 is the calmest",
		}),
		Coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radar_indicator_coverage_ratio",
			Help: "Share of configured indicators scored in the latest cycle",
		}),
		Contribution: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "radar_indicator_severity",
			Help: "Per-indicator severity (0-100) of the latest cycle",
		}, []string{"indicator"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radar_fetch_failures_total",
			Help: "Failed fetches by source",
		}, []string{"source"}),
		Narratives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radar_narratives_total",
			Help: "Narratives produced, by origin (model or rules)",
		}, []string{"source"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radar_cycle_duration_seconds",
			Help:    "Duration of one refresh cycle",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_cycles_total",
			Help: "Completed refresh cycles",
		}),
	}
	r.reg.MustRegister(r.Score, r.Band, r.Coverage, r.Contribution, r.FetchFailures, r.Narratives, r.CycleDuration, r.Cycles)
	return r
}

// ObserveScore publishes the gauges of one evaluation.
func (r *Registry) ObserveScore(s model.CompositeScore) {
	r.Score.Set(float64(s.Value))
	r.Band.Set(float64(s.Level.Rank))
	r.Coverage.Set(s.Coverage())
	r.Contribution.Reset()
	for _, c := range s.Contributions {
		r.Contribution.WithLabelValues(c.ID).Set(c.Severity)
	}
}

// FetchFailed counts one failed fetch.
func (r *Registry) FetchFailed(source string) {
	r.FetchFailures.WithLabelValues(source).Inc()
}

// NarrativeProduced counts one narrative by origin.
func (r *Registry) NarrativeProduced(source string) {
	r.Narratives.WithLabelValues(source).Inc()
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
