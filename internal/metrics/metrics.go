// Package metrics exposes cart telemetry to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/banana-cart/internal/logic"
)

// Metrics holds the collectors updated by the control loop.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry    *prometheus.Registry
	inspections *prometheus.CounterVec
	gasPPM      prometheus.Gauge
	hue         prometheus.Gauge
	distanceCM  prometheus.Gauge
	cycleErrors prometheus.Counter
}

// New creates and registers the cart collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inspections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "banana_inspections_total",
			Help: "Total inspections by verdict.",
		}, []string{"verdict"}),
		gasPPM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banana_gas_ppm",
			Help: "Gas concentration of the last inspection.",
		}),
		hue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banana_hue_degrees",
			Help: "Hue of the last inspection.",
		}),
		distanceCM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_distance_cm",
			Help: "Last measured distance to the obstacle ahead.",
		}),
		cycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_cycle_errors_total",
			Help: "Control cycles aborted by a hardware error.",
		}),
	}

	m.registry.MustRegister(
		m.inspections,
		m.gasPPM,
		m.hue,
		m.distanceCM,
		m.cycleErrors,
	)

	// Both verdicts appear from the first scrape.
	m.inspections.WithLabelValues(string(logic.VerdictGood))
	m.inspections.WithLabelValues(string(logic.VerdictRotten))

	return m
}

// ObserveInspection records a completed inspection.
func (m *Metrics) ObserveInspection(in logic.Inspection) {
	m.inspections.WithLabelValues(string(in.Verdict)).Inc()
	m.gasPPM.Set(float64(in.GasPPM))
	m.hue.Set(logic.Widen(in.Color.H))
}

// ObserveDistance records the latest range reading.
func (m *Metrics) ObserveDistance(cm int64) {
	m.distanceCM.Set(float64(cm))
}

// CycleFailed counts a control cycle that ended in an error.
func (m *Metrics) CycleFailed() {
	m.cycleErrors.Inc()
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
