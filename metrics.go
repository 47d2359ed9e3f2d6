package cvt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for tessellation runs. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Tessellations       prometheus.Counter
	ConvergenceFailures prometheus.Counter
	Iterations          prometheus.Histogram
	EmptyNodes          prometheus.Gauge
	SegmentationPixels  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Tessellations: factory.NewCounter(prometheus.CounterOpts{
			Name: "cvt_tessellations_total",
			Help: "Total converged tessellation runs",
		}),
		ConvergenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cvt_convergence_failures_total",
			Help: "Tessellation runs that hit the iteration cap",
		}),
		Iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cvt_iterations",
			Help:    "Lloyd iterations per converged run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		EmptyNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cvt_empty_nodes",
			Help: "Nodes owning no points after the last converged run",
		}),
		SegmentationPixels: factory.NewCounter(prometheus.CounterOpts{
			Name: "cvt_segmentation_pixels_total",
			Help: "Pixels rasterised into segmentation maps",
		}),
	}
}

func (m *Metrics) observeConverged(iterations, empty int) {
	if m == nil {
		return
	}
	m.Tessellations.Inc()
	m.Iterations.Observe(float64(iterations))
	m.EmptyNodes.Set(float64(empty))
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.ConvergenceFailures.Inc()
}

func (m *Metrics) observeSegmentation(pixels int) {
	if m == nil {
		return
	}
	m.SegmentationPixels.Add(float64(pixels))
}
