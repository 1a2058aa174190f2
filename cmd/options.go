package cmd

import (
	"go.uber.org/zap"

	"github.com/olivierh59500/netgraph/internal/config"
	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/metrics"
	"github.com/olivierh59500/netgraph/internal/physics"
	"github.com/olivierh59500/netgraph/internal/scene"
	"github.com/olivierh59500/netgraph/internal/store"
)

func sceneOptions(c *config.Config, log *zap.Logger, m *metrics.Metrics) scene.Options {
	opts := scene.DefaultOptions()
	opts.Physics = physics.Params{
		Repulsion:  c.Physics.Repulsion,
		Spring:     c.Physics.Spring,
		CenterPull: c.Physics.CenterPull,
		Damping:    c.Physics.Damping,
		Epsilon:    c.Physics.Epsilon,
		Margin:     c.Physics.Margin,
	}
	opts.Interact.WheelZoomIn = c.View.WheelZoomIn
	opts.Interact.WheelZoomOut = c.View.WheelZoomOut
	opts.MinScale = c.View.MinScale
	opts.MaxScale = c.View.MaxScale
	opts.ButtonZoomIn = c.View.ButtonZoomIn
	opts.ButtonZoomOut = c.View.ButtonZoomOut
	opts.MinSize = float64(c.Window.MinSize)
	opts.Logger = log
	opts.Metrics = m
	return opts
}

// graphLoader reads f on every call and logs document problems without
// failing the load.
func graphLoader(f *store.File, log *zap.Logger) func() ([]graph.Node, []graph.Edge, error) {
	return func() ([]graph.Node, []graph.Edge, error) {
		doc, err := f.Read()
		if err != nil {
			return nil, nil, err
		}
		if err := doc.Validate(); err != nil {
			log.Warn("document has problems", zap.String("path", f.Path), zap.Error(err))
		}
		return doc.Nodes(), doc.Relationships(), nil
	}
}
