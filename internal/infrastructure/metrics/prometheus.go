// Package metrics métricas Prometheus de las pasadas de planeación.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

var _ ports.PassObserver = (*Metrics)(nil)

// Metrics contadores e histogramas del motor de asignación.
type Metrics struct {
	PassesTotal        prometheus.Counter
	PassDuration       prometheus.Histogram
	ProposalsTotal     *prometheus.CounterVec
	UnfulfilledTotal   prometheus.Counter
	RejectionsTotal    *prometheus.CounterVec
	LookupFallbacks    *prometheus.CounterVec
	ProposedUnitsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New crea y registra las métricas en un registro propio.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registra las métricas en el registerer indicado.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		PassesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planning_passes_total",
			Help: "Total planning passes executed",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planning_pass_duration_seconds",
			Help:    "Planning pass duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		ProposalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_proposals_total",
			Help: "Proposals emitted by kind",
		}, []string{"kind"}),
		UnfulfilledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planning_unfulfilled_signals_total",
			Help: "Demand signals with no compliant candidate",
		}),
		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_regulatory_rejections_total",
			Help: "Candidates excluded by the regulatory gate",
		}, []string{"kind"}),
		LookupFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_lookup_fallbacks_total",
			Help: "External lookups replaced by the static fallback",
		}, []string{"lookup"}),
		ProposedUnitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_proposed_units_total",
			Help: "Units proposed by kind",
		}, []string{"kind"}),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.PassesTotal,
		m.PassDuration,
		m.ProposalsTotal,
		m.UnfulfilledTotal,
		m.RejectionsTotal,
		m.LookupFallbacks,
		m.ProposedUnitsTotal,
	)
	return m
}

// ObservePass registra el resumen de una pasada.
func (m *Metrics) ObservePass(run *entity.PlanningRun, duration time.Duration) {
	m.PassesTotal.Inc()
	m.PassDuration.Observe(duration.Seconds())
	for _, p := range run.Proposals {
		m.ProposalsTotal.WithLabelValues(string(p.Kind)).Inc()
		m.ProposedUnitsTotal.WithLabelValues(string(p.Kind)).Add(float64(p.Quantity))
	}
	for _, r := range run.Rejections {
		m.RejectionsTotal.WithLabelValues(string(r.Kind)).Inc()
	}
	m.UnfulfilledTotal.Add(float64(len(run.Unfulfilled)))
}

// ObserveLookupFallback cuenta un lookup externo reemplazado por el valor estático.
func (m *Metrics) ObserveLookupFallback(lookup string) {
	m.LookupFallbacks.WithLabelValues(lookup).Inc()
}

// Handler expone las métricas registradas.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
