// Package interact turns pointer and wheel input into drag, pan, zoom,
// hover and selection changes.
package interact

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/layout"
	"github.com/olivierh59500/netgraph/internal/viewport"
)

// clickSlop is how far, in screen pixels, the pointer may travel between
// press and release for the gesture to still count as a click.
const clickSlop = 3.0

// HoverKind tags a Hover value.
type HoverKind int

const (
	HoverNone HoverKind = iota
	HoverNode
	HoverEdge
)

// Hover is the entity under the pointer. ID is empty for HoverNone.
type Hover struct {
	Kind HoverKind
	ID   string
}

// IsNode reports whether h is the node id.
func (h Hover) IsNode(id string) bool { return h.Kind == HoverNode && h.ID == id }

// IsEdge reports whether h is the edge id.
func (h Hover) IsEdge(id string) bool { return h.Kind == HoverEdge && h.ID == id }

// Options configures hit radii (screen pixels at scale 1) and wheel zoom.
type Options struct {
	NodeHitRadius float64
	SelfHitRadius float64
	EdgeHitRadius float64
	WheelZoomIn   float64
	WheelZoomOut  float64
}

// DefaultOptions returns the standard radii and wheel factors.
func DefaultOptions() Options {
	return Options{
		NodeHitRadius: 9,
		SelfHitRadius: 12,
		EdgeHitRadius: 6,
		WheelZoomIn:   1.08,
		WheelZoomOut:  0.92,
	}
}

// Controller holds drag, pan, hover and selection state for one view.
type Controller struct {
	opts   Options
	layout *layout.State
	view   *viewport.Viewport
	nodes  []graph.Node
	edges  []graph.Edge

	dragging string
	panning  bool
	lastPan  r2.Vec
	press    r2.Vec
	moved    bool

	hover    Hover
	selected string
	pointer  r2.Vec
	inside   bool

	// OnSelect, when set, is called with the newly selected node id, or
	// "" when the selection is cleared.
	OnSelect func(id string)
}

// New returns a controller acting on l through v.
func New(l *layout.State, v *viewport.Viewport, opts Options) *Controller {
	return &Controller{opts: opts, layout: l, view: v}
}

// SetGraph replaces the topology used for hit-testing.
func (c *Controller) SetGraph(nodes []graph.Node, edges []graph.Edge) {
	c.nodes = nodes
	c.edges = edges
	if c.hover.Kind != HoverNone && !c.hoverValid() {
		c.hover = Hover{}
	}
	if _, ok := c.layout.Get(c.selected); c.selected != "" && !ok {
		c.setSelected("")
	}
}

func (c *Controller) hoverValid() bool {
	switch c.hover.Kind {
	case HoverNode:
		_, ok := c.layout.Get(c.hover.ID)
		return ok
	case HoverEdge:
		for _, e := range c.edges {
			if e.ID == c.hover.ID {
				return true
			}
		}
	}
	return false
}

// PointerDown starts a drag when p is on a node, a pan otherwise.
func (c *Controller) PointerDown(p r2.Vec) {
	c.pointer, c.inside = p, true
	c.press, c.moved = p, false
	if id, ok := c.HitNode(p); ok {
		c.dragging = id
		c.layout.Pin(id, c.view.ToWorld(p))
		return
	}
	c.panning = true
	c.lastPan = p
}

// PointerMove drags, pans or re-runs the hover hit-test, in that order.
func (c *Controller) PointerMove(p r2.Vec) {
	c.pointer, c.inside = p, true
	if r2.Norm(r2.Sub(p, c.press)) > clickSlop {
		c.moved = true
	}
	switch {
	case c.dragging != "":
		c.layout.MovePinned(c.dragging, c.view.ToWorld(p))
	case c.panning:
		c.view.PanBy(r2.Sub(p, c.lastPan))
		c.lastPan = p
	default:
		c.hover = c.HitTest(p)
	}
}

// PointerUp ends any drag or pan. It must be wired to a window-level
// release so the gesture is released even off-canvas. A press and
// release without movement selects the node pressed, or clears the
// selection when the press was on empty space.
func (c *Controller) PointerUp() {
	click := (c.dragging != "" || c.panning) && !c.moved
	if click {
		c.setSelected(c.dragging)
	}
	c.Cancel()
}

// Cancel abandons any drag or pan without treating it as a click.
func (c *Controller) Cancel() {
	if c.dragging != "" {
		c.layout.Unpin(c.dragging)
	}
	c.dragging = ""
	c.panning = false
	c.lastPan = r2.Vec{}
}

// PointerLeave clears hover when the pointer exits the surface. Drag and
// pan continue until PointerUp.
func (c *Controller) PointerLeave() {
	c.inside = false
	c.hover = Hover{}
}

// Wheel zooms about p: in for a negative deltaY, out otherwise. It always
// reports true so the host suppresses its default scroll.
func (c *Controller) Wheel(p r2.Vec, deltaY float64) bool {
	if deltaY == 0 {
		return true
	}
	f := c.opts.WheelZoomOut
	if deltaY < 0 {
		f = c.opts.WheelZoomIn
	}
	c.view.ZoomAt(p, f)
	return true
}

// HitTest returns the nearest node under p, else the nearest edge, else
// HoverNone.
func (c *Controller) HitTest(p r2.Vec) Hover {
	if id, ok := c.HitNode(p); ok {
		return Hover{Kind: HoverNode, ID: id}
	}
	if id, ok := c.HitEdge(p); ok {
		return Hover{Kind: HoverEdge, ID: id}
	}
	return Hover{}
}

// HitNode returns the nearest node within its hit radius of screen point p.
func (c *Controller) HitNode(p r2.Vec) (string, bool) {
	w := c.view.ToWorld(p)
	best, bestDist := "", math.Inf(1)
	for _, n := range c.nodes {
		pos, ok := c.layout.Position(n.ID)
		if !ok {
			continue
		}
		r := c.opts.NodeHitRadius
		if n.IsSelf {
			r = c.opts.SelfHitRadius
		}
		d := r2.Norm(r2.Sub(w, pos))
		if d < r/c.view.Scale && d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

// HitEdge returns the nearest edge within the edge hit radius of screen
// point p. Edges with a missing endpoint are ignored.
func (c *Controller) HitEdge(p r2.Vec) (string, bool) {
	w := c.view.ToWorld(p)
	limit := c.opts.EdgeHitRadius / c.view.Scale
	best, bestDist := "", math.Inf(1)
	for _, e := range c.edges {
		a, ok1 := c.layout.Position(e.FromID)
		b, ok2 := c.layout.Position(e.ToID)
		if !ok1 || !ok2 {
			continue
		}
		d := SegmentDistance(w, a, b)
		if d < limit && d < bestDist {
			best, bestDist = e.ID, d
		}
	}
	return best, best != ""
}

// Hover returns the current hover target.
func (c *Controller) Hover() Hover { return c.hover }

// ClearHover resets the hover target.
func (c *Controller) ClearHover() { c.hover = Hover{} }

// Dragging returns the id of the node being dragged.
func (c *Controller) Dragging() (string, bool) { return c.dragging, c.dragging != "" }

// Panning reports whether a pan gesture is active.
func (c *Controller) Panning() bool { return c.panning }

// Selected returns the selected node id, or "".
func (c *Controller) Selected() string { return c.selected }

// Pointer returns the last pointer position and whether it is over the surface.
func (c *Controller) Pointer() (r2.Vec, bool) { return c.pointer, c.inside }

func (c *Controller) setSelected(id string) {
	if id == c.selected {
		return
	}
	c.selected = id
	if c.OnSelect != nil {
		c.OnSelect(id)
	}
}

// SegmentDistance returns the distance from p to the segment ab. A
// degenerate segment yields the distance from p to a.
func SegmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}
