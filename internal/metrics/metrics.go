package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the simulation counters of one scene.
type Metrics struct {
	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Reseeds      prometheus.Counter
	Nodes        prometheus.Gauge
	Edges        prometheus.Gauge
}

// New registers the scene metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "netgraph_ticks_total",
			Help: "Simulation ticks executed",
		}),
		// Ticks are O(n²); buckets span a few nodes to a few thousand.
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "netgraph_tick_duration_seconds",
			Help:    "Duration of one simulation step",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016, 0.05, 0.1},
		}),
		Reseeds: f.NewCounter(prometheus.CounterOpts{
			Name: "netgraph_reseeds_total",
			Help: "Layout rebuilds caused by a changed node set",
		}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "netgraph_nodes",
			Help: "Nodes in the current graph",
		}),
		Edges: f.NewGauge(prometheus.GaugeOpts{
			Name: "netgraph_edges",
			Help: "Undirected edges in the current graph",
		}),
	}
}

// Handler serves reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
