// Package render paints a graph view onto a Canvas.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/interact"
	"github.com/olivierh59500/netgraph/internal/layout"
	"github.com/olivierh59500/netgraph/internal/viewport"
)

// Canvas is a 2-D drawing surface in screen pixels.
type Canvas interface {
	Size() (w, h float64)
	Clear(c color.Color)
	Line(a, b r2.Vec, width float64, c color.Color)
	FillCircle(center r2.Vec, radius float64, c color.Color)
	StrokeCircle(center r2.Vec, radius, width float64, c color.Color)
	FillRect(b Box, c color.Color)
	// Text draws s with its top-left corner at p.
	Text(s string, p r2.Vec, c color.Color)
	MeasureText(s string) (w, h float64)
}

// Stroke is a line colour and width.
type Stroke struct {
	Color color.Color
	Width float64
}

// Style holds every colour and size the renderer uses.
type Style struct {
	Background     color.Color
	Edge           map[graph.Strength]Stroke
	EdgeHighlight  Stroke
	Level          map[graph.Level]color.Color
	LevelFallback  color.Color
	Self           color.Color
	NodeOutline    Stroke
	NodeHighlight  Stroke
	NodeRadius     float64
	SelfRadius     float64
	Label          color.Color
	LabelHalo      color.Color
	Empty          color.Color
	TooltipFill    color.Color
	TooltipText    color.Color
	MaxTooltipTags int
}

// DefaultStyle returns the dark theme palette.
func DefaultStyle() Style {
	return Style{
		Background: color.NRGBA{R: 14, G: 17, B: 22, A: 255},
		Edge: map[graph.Strength]Stroke{
			graph.Strong: {Color: color.NRGBA{R: 255, G: 122, B: 89, A: 191}, Width: 2.6},
			graph.Normal: {Color: color.NRGBA{R: 61, G: 214, B: 166, A: 89}, Width: 1.6},
			graph.Weak:   {Color: color.NRGBA{R: 122, G: 182, B: 255, A: 64}, Width: 0.9},
		},
		EdgeHighlight: Stroke{Color: color.NRGBA{R: 255, G: 122, B: 89, A: 242}, Width: 3},
		Level: map[graph.Level]color.Color{
			graph.L1: color.NRGBA{R: 0xf2, G: 0xc9, B: 0x4c, A: 255},
			graph.L2: color.NRGBA{R: 0x3d, G: 0xd6, B: 0xa6, A: 255},
			graph.L3: color.NRGBA{R: 0x7a, G: 0xb6, B: 0xff, A: 255},
			graph.L4: color.NRGBA{R: 0xff, G: 0x7a, B: 0x59, A: 255},
		},
		LevelFallback:  color.NRGBA{R: 0x3d, G: 0xd6, B: 0xa6, A: 255},
		Self:           color.NRGBA{R: 0xff, G: 0xb3, B: 0x47, A: 255},
		NodeOutline:    Stroke{Color: color.NRGBA{A: 89}, Width: 1},
		NodeHighlight:  Stroke{Color: color.NRGBA{R: 255, G: 122, B: 89, A: 230}, Width: 2},
		NodeRadius:     6,
		SelfRadius:     9,
		Label:          color.NRGBA{R: 232, G: 237, B: 242, A: 230},
		LabelHalo:      color.NRGBA{R: 8, G: 10, B: 14, A: 160},
		Empty:          color.NRGBA{R: 255, G: 255, B: 255, A: 153},
		TooltipFill:    color.NRGBA{R: 20, G: 24, B: 31, A: 235},
		TooltipText:    color.NRGBA{R: 232, G: 237, B: 242, A: 255},
		MaxTooltipTags: 6,
	}
}

// EmptyMessage is drawn when there are no nodes.
const EmptyMessage = "No contacts yet."

// Frame is everything one paint reads.
type Frame struct {
	Layout   *layout.State
	Nodes    []graph.Node
	Edges    []graph.Edge
	Lookup   graph.Lookup
	View     *viewport.Viewport
	Hover    interact.Hover
	Dragging string
	Selected string
	Pointer  r2.Vec // tooltip anchor, screen space
	Tooltip  bool
}

// Renderer paints frames. Its only state is the label placement cache.
type Renderer struct {
	Style  Style
	labels *LabelPlacer
}

// New returns a renderer using s and label options o.
func New(s Style, o LabelOptions) *Renderer {
	return &Renderer{Style: s, labels: NewLabelPlacer(o)}
}

// Labels returns the label boxes placed during the last Draw.
func (r *Renderer) Labels() []Box { return r.labels.Placed() }

// Draw paints f onto c.
func (r *Renderer) Draw(c Canvas, f Frame) {
	st := r.Style
	c.Clear(st.Background)
	r.labels.Reset()

	if len(f.Nodes) == 0 {
		c.Text(EmptyMessage, r2.Vec{X: 16, Y: 16}, st.Empty)
		return
	}

	for _, e := range f.Edges {
		a, ok1 := f.Layout.Position(e.FromID)
		b, ok2 := f.Layout.Position(e.ToID)
		if !ok1 || !ok2 {
			continue
		}
		s := r.edgeStroke(e, f.Hover)
		c.Line(f.View.ToScreen(a), f.View.ToScreen(b), s.Width, s.Color)
	}

	for _, n := range f.Nodes {
		pos, ok := f.Layout.Position(n.ID)
		if !ok {
			continue
		}
		p := f.View.ToScreen(pos)
		radius := st.NodeRadius
		fill := st.Level[n.Level]
		if fill == nil {
			fill = st.LevelFallback
		}
		if n.IsSelf {
			radius = st.SelfRadius
			fill = st.Self
		}
		outline := st.NodeOutline
		if f.Hover.IsNode(n.ID) || f.Dragging == n.ID || f.Selected == n.ID {
			outline = st.NodeHighlight
		}
		c.FillCircle(p, radius, fill)
		c.StrokeCircle(p, radius, outline.Width, outline.Color)
	}

	w, h := c.Size()
	center := r2.Vec{X: w / 2, Y: h / 2}
	for _, n := range f.Nodes {
		pos, ok := f.Layout.Position(n.ID)
		if !ok {
			continue
		}
		label := r.labels.Options.Truncate(n.DisplayName)
		tw, th := c.MeasureText(label)
		box := r.labels.Place(f.View.ToScreen(pos), center, tw)
		c.FillRect(box, st.LabelHalo)
		c.Text(label, r2.Vec{X: box.X + r.labels.Options.Padding/2, Y: box.Y + (box.H-th)/2}, st.Label)
	}

	if f.Tooltip {
		if lines := r.TooltipLines(f); len(lines) > 0 {
			r.drawTooltip(c, lines, f.Pointer)
		}
	}
}

func (r *Renderer) edgeStroke(e graph.Edge, h interact.Hover) Stroke {
	if h.IsEdge(e.ID) {
		return r.Style.EdgeHighlight
	}
	if s, ok := r.Style.Edge[e.Strength]; ok {
		return s
	}
	return r.Style.Edge[graph.Normal]
}

// TooltipLines describes the hovered entity, or returns nil.
func (r *Renderer) TooltipLines(f Frame) []string {
	switch f.Hover.Kind {
	case interact.HoverNode:
		n, ok := f.Lookup[f.Hover.ID]
		if !ok {
			return nil
		}
		tags := n.Tags
		if len(tags) > r.Style.MaxTooltipTags {
			tags = tags[:r.Style.MaxTooltipTags]
		}
		tagLine := strings.Join(tags, ", ")
		if tagLine == "" {
			tagLine = "—"
		}
		return []string{
			n.DisplayName,
			fmt.Sprintf("Level: %s", n.Level),
			fmt.Sprintf("Tags: %s", tagLine),
		}
	case interact.HoverEdge:
		for _, e := range f.Edges {
			if e.ID != f.Hover.ID {
				continue
			}
			return []string{
				fmt.Sprintf("%s ↔ %s", f.Lookup.Name(e.FromID), f.Lookup.Name(e.ToID)),
				fmt.Sprintf("Type: %s", e.Type),
				fmt.Sprintf("Strength: %s", e.Strength),
			}
		}
	}
	return nil
}

func (r *Renderer) drawTooltip(c Canvas, lines []string, at r2.Vec) {
	const pad, gap = 6.0, 2.0
	var w, h float64
	heights := make([]float64, len(lines))
	for i, l := range lines {
		lw, lh := c.MeasureText(l)
		w = max(w, lw)
		heights[i] = lh
		h += lh + gap
	}
	box := Box{X: at.X + 12, Y: at.Y + 12, W: w + 2*pad, H: h - gap + 2*pad}
	c.FillRect(box, r.Style.TooltipFill)
	y := box.Y + pad
	for i, l := range lines {
		c.Text(l, r2.Vec{X: box.X + pad, Y: y}, r.Style.TooltipText)
		y += heights[i] + gap
	}
}
