// Package scene ties layout, physics, viewport, interaction and rendering
// into one graph view that a host mounts onto a drawing surface.
package scene

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/interact"
	"github.com/olivierh59500/netgraph/internal/layout"
	"github.com/olivierh59500/netgraph/internal/metrics"
	"github.com/olivierh59500/netgraph/internal/physics"
	"github.com/olivierh59500/netgraph/internal/render"
	"github.com/olivierh59500/netgraph/internal/viewport"
)

// ErrNotMounted is the panic value for pointer input delivered before
// Mount. Hosts must not do that.
var ErrNotMounted = errors.New("scene: pointer input before Mount")

// Surface is the host drawing area.
type Surface interface {
	Size() (w, h float64)
	// Repaint asks the host to draw the scene again soon.
	Repaint()
}

// Options configures a Scene.
type Options struct {
	Physics       physics.Params
	Interact      interact.Options
	Style         render.Style
	Labels        render.LabelOptions
	MinScale      float64
	MaxScale      float64
	ButtonZoomIn  float64
	ButtonZoomOut float64
	MinSize       float64 // surfaces are treated as at least MinSize square

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// DefaultOptions returns the standard tuning with a no-op logger.
func DefaultOptions() Options {
	return Options{
		Physics:       physics.DefaultParams(),
		Interact:      interact.DefaultOptions(),
		Style:         render.DefaultStyle(),
		Labels:        render.DefaultLabelOptions(),
		MinScale:      viewport.DefaultMinScale,
		MaxScale:      viewport.DefaultMaxScale,
		ButtonZoomIn:  1.12,
		ButtonZoomOut: 0.88,
		MinSize:       320,
	}
}

// Scene is one graph view. It is not safe for concurrent use; all calls
// come from the host's UI thread.
type Scene struct {
	opts     Options
	sched    Scheduler
	log      *zap.Logger
	metrics  *metrics.Metrics
	layout   *layout.State
	sim      *physics.Simulator
	view     *viewport.Viewport
	ctl      *interact.Controller
	renderer *render.Renderer

	nodes  []graph.Node
	edges  []graph.Edge
	lookup graph.Lookup

	surface  Surface
	running  bool
	frame    FrameID
	hasFrame bool
	input    Input
}

// New returns an unmounted, paused scene that schedules ticks on sched.
func New(sched Scheduler, opts Options) *Scene {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{
		opts:     opts,
		sched:    sched,
		log:      log,
		metrics:  opts.Metrics,
		layout:   layout.New(),
		sim:      physics.New(opts.Physics),
		view:     viewport.New(opts.MinScale, opts.MaxScale),
		renderer: render.New(opts.Style, opts.Labels),
		lookup:   graph.Lookup{},
	}
	s.ctl = interact.New(s.layout, s.view, opts.Interact)
	return s
}

// Mount attaches the scene to surf and starts the simulation. Particles
// survive an Unmount/Mount cycle unless the node set changed meanwhile.
func (s *Scene) Mount(surf Surface) {
	if s.surface != nil {
		s.Unmount()
	}
	s.surface = surf
	s.reconcile()
	s.log.Debug("scene mounted", zap.Int("nodes", len(s.nodes)), zap.Int("edges", len(s.edges)))
	s.Resume()
}

// Unmount pauses the simulation, cancels the pending frame and detaches
// the surface. Positions are kept.
func (s *Scene) Unmount() {
	if s.surface == nil {
		return
	}
	s.Pause()
	s.ctl.Cancel()
	s.ctl.ClearHover()
	s.surface = nil
	s.input = Input{}
	s.log.Debug("scene unmounted")
}

// Mounted reports whether a surface is attached.
func (s *Scene) Mounted() bool { return s.surface != nil }

// Refresh replaces the graph. The layout is reseeded only when the
// ordered node id sequence differs from the previous one.
func (s *Scene) Refresh(nodes []graph.Node, edges []graph.Edge) {
	s.nodes = nodes
	s.edges = edges
	s.lookup = graph.NodesByID(nodes)
	if s.metrics != nil {
		s.metrics.Nodes.Set(float64(len(nodes)))
		s.metrics.Edges.Set(float64(len(edges)))
	}
	if s.surface != nil {
		s.reconcile()
	}
}

// reconcile seeds in world bounds, which physics clamps to. A reseed
// restores the identity view so the new circle is on screen and cancels
// any gesture in progress.
func (s *Scene) reconcile() {
	b := s.bounds()
	if s.layout.Reconcile(s.nodes, b.Center(), b.SeedRadius()) {
		s.ctl.Cancel()
		s.view.Reset()
		s.log.Debug("layout reseeded", zap.Int("nodes", s.layout.Len()))
		if s.metrics != nil {
			s.metrics.Reseeds.Inc()
		}
	}
	s.ctl.SetGraph(s.nodes, s.edges)
}

// Running reports whether ticks are being scheduled.
func (s *Scene) Running() bool { return s.running }

// Resume starts scheduling ticks. It does nothing while unmounted or
// already running.
func (s *Scene) Resume() {
	if s.surface == nil || s.running {
		return
	}
	s.running = true
	s.ctl.ClearHover()
	s.surface.Repaint()
	s.schedule()
	s.log.Debug("simulation running")
}

// Pause stops scheduling ticks and cancels the pending one.
func (s *Scene) Pause() {
	if s.hasFrame {
		s.sched.CancelFrame(s.frame)
		s.hasFrame = false
	}
	if !s.running {
		return
	}
	s.running = false
	s.log.Debug("simulation paused")
}

// Toggle flips between running and paused.
func (s *Scene) Toggle() {
	if s.running {
		s.Pause()
		return
	}
	s.Resume()
}

func (s *Scene) schedule() {
	if s.hasFrame {
		s.sched.CancelFrame(s.frame)
	}
	s.frame = s.sched.RequestFrame(s.tick)
	s.hasFrame = true
}

// tick advances the simulation one step, repaints and schedules the next.
func (s *Scene) tick() {
	s.hasFrame = false
	if !s.running || s.surface == nil {
		return
	}
	start := time.Now()
	s.sim.Step(s.layout, s.edges, s.bounds())
	if s.metrics != nil {
		s.metrics.Ticks.Inc()
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
	s.surface.Repaint()
	s.schedule()
}

// ResetView restores the identity transform.
func (s *Scene) ResetView() {
	s.view.Reset()
	s.repaint()
}

// ZoomIn zooms about the surface center.
func (s *Scene) ZoomIn() { s.zoomCenter(s.opts.ButtonZoomIn) }

// ZoomOut zooms out about the surface center.
func (s *Scene) ZoomOut() { s.zoomCenter(s.opts.ButtonZoomOut) }

func (s *Scene) zoomCenter(f float64) {
	w, h := s.surfaceSize()
	s.view.ZoomAt(r2.Vec{X: w / 2, Y: h / 2}, f)
	s.repaint()
}

func (s *Scene) repaint() {
	if s.surface != nil {
		s.surface.Repaint()
	}
}

func (s *Scene) mustBeMounted() {
	if s.surface == nil {
		panic(ErrNotMounted)
	}
}

// PointerDown forwards a press at screen point p.
func (s *Scene) PointerDown(p r2.Vec) {
	s.mustBeMounted()
	s.ctl.PointerDown(p)
	s.surface.Repaint()
}

// PointerMove forwards pointer motion.
func (s *Scene) PointerMove(p r2.Vec) {
	s.mustBeMounted()
	s.ctl.PointerMove(p)
	s.surface.Repaint()
}

// PointerUp forwards a release anywhere in the window.
func (s *Scene) PointerUp() {
	s.mustBeMounted()
	s.ctl.PointerUp()
}

// PointerLeave forwards the pointer leaving the surface.
func (s *Scene) PointerLeave() {
	s.mustBeMounted()
	s.ctl.PointerLeave()
	s.surface.Repaint()
}

// Wheel forwards a wheel event; deltaY < 0 zooms in. It reports whether
// the host should suppress its default scroll handling.
func (s *Scene) Wheel(p r2.Vec, deltaY float64) bool {
	s.mustBeMounted()
	handled := s.ctl.Wheel(p, deltaY)
	s.surface.Repaint()
	return handled
}

// OnSelect sets the callback for click selection.
func (s *Scene) OnSelect(fn func(id string)) { s.ctl.OnSelect = fn }

// Paint draws the current state without advancing the simulation.
func (s *Scene) Paint(c render.Canvas) {
	drag, _ := s.ctl.Dragging()
	pointer, inside := s.ctl.Pointer()
	hover := s.ctl.Hover()
	s.renderer.Draw(c, render.Frame{
		Layout:   s.layout,
		Nodes:    s.nodes,
		Edges:    s.edges,
		Lookup:   s.lookup,
		View:     s.view,
		Hover:    hover,
		Dragging: drag,
		Selected: s.ctl.Selected(),
		Pointer:  pointer,
		Tooltip:  inside && hover.Kind != interact.HoverNone,
	})
}

// Hover returns the entity under the pointer.
func (s *Scene) Hover() interact.Hover { return s.ctl.Hover() }

// Selected returns the selected node id.
func (s *Scene) Selected() string { return s.ctl.Selected() }

// Layout exposes the particle state for inspection.
func (s *Scene) Layout() *layout.State { return s.layout }

// Viewport exposes the view transform for inspection.
func (s *Scene) Viewport() *viewport.Viewport { return s.view }

// Lookup returns the node index of the current graph.
func (s *Scene) Lookup() graph.Lookup { return s.lookup }

// Edges returns the current edges.
func (s *Scene) Edges() []graph.Edge { return s.edges }

func (s *Scene) surfaceSize() (float64, float64) {
	w, h := s.opts.MinSize, s.opts.MinSize
	if s.surface != nil {
		sw, sh := s.surface.Size()
		w, h = math.Max(w, sw), math.Max(h, sh)
	}
	return w, h
}

func (s *Scene) bounds() layout.Bounds {
	w, h := s.surfaceSize()
	return layout.Bounds{Width: w, Height: h}
}
