package render

import (
	"image/color"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/interact"
	"github.com/olivierh59500/netgraph/internal/layout"
	"github.com/olivierh59500/netgraph/internal/viewport"
)

type op struct {
	kind   string
	a, b   r2.Vec
	radius float64
	width  float64
	color  color.Color
	text   string
}

// recorder is a Canvas that records calls. Text is 6px per rune, 16px high.
type recorder struct {
	w, h float64
	ops  []op
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) Clear(c color.Color)      { r.ops = append(r.ops, op{kind: "clear", color: c}) }
func (r *recorder) Line(a, b r2.Vec, w float64, c color.Color) {
	r.ops = append(r.ops, op{kind: "line", a: a, b: b, width: w, color: c})
}
func (r *recorder) FillCircle(p r2.Vec, rad float64, c color.Color) {
	r.ops = append(r.ops, op{kind: "fill", a: p, radius: rad, color: c})
}
func (r *recorder) StrokeCircle(p r2.Vec, rad, w float64, c color.Color) {
	r.ops = append(r.ops, op{kind: "stroke", a: p, radius: rad, width: w, color: c})
}
func (r *recorder) FillRect(b Box, c color.Color) {
	r.ops = append(r.ops, op{kind: "rect", a: r2.Vec{X: b.X, Y: b.Y}, b: r2.Vec{X: b.W, Y: b.H}, color: c})
}
func (r *recorder) Text(s string, p r2.Vec, c color.Color) {
	r.ops = append(r.ops, op{kind: "text", a: p, text: s, color: c})
}
func (r *recorder) MeasureText(s string) (float64, float64) {
	return float64(6 * utf8.RuneCountInString(s)), 16
}

func (r *recorder) of(kind string) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func frame(t *testing.T) Frame {
	t.Helper()
	nodes := []graph.Node{
		{ID: "me", DisplayName: "Me", IsSelf: true, Level: graph.L1},
		{ID: "a", DisplayName: "Alice", Level: graph.L3, Tags: []string{"1", "2", "3", "4", "5", "6", "7"}},
		{ID: "b", DisplayName: "Bob", Level: "L9"},
	}
	l := layout.New()
	l.Reconcile(nodes, r2.Vec{X: 400, Y: 300}, 200)
	return Frame{
		Layout: l,
		Nodes:  nodes,
		Edges: []graph.Edge{
			{ID: "e1", FromID: "me", ToID: "a", Type: "knows", Strength: graph.Strong},
			{ID: "e2", FromID: "a", ToID: "b", Type: "works_with", Strength: graph.Weak},
			{ID: "e3", FromID: "b", ToID: "ghost", Type: "knows", Strength: graph.Normal},
		},
		Lookup: graph.NodesByID(nodes),
		View:   viewport.Default(),
	}
}

func TestDrawEmpty(t *testing.T) {
	c := &recorder{w: 800, h: 600}
	r := New(DefaultStyle(), DefaultLabelOptions())
	r.Draw(c, Frame{Layout: layout.New(), View: viewport.Default()})

	texts := c.of("text")
	require.Len(t, texts, 1)
	assert.Equal(t, EmptyMessage, texts[0].text)
	assert.Empty(t, c.of("fill"))
}

func TestDrawSkipsDanglingEdges(t *testing.T) {
	c := &recorder{w: 800, h: 600}
	r := New(DefaultStyle(), DefaultLabelOptions())
	r.Draw(c, frame(t))

	lines := c.of("line")
	require.Len(t, lines, 2)
	st := DefaultStyle()
	assert.Equal(t, st.Edge[graph.Strong].Width, lines[0].width)
	assert.Equal(t, st.Edge[graph.Weak].Width, lines[1].width)
}

func TestDrawHighlightsHoveredEdge(t *testing.T) {
	c := &recorder{w: 800, h: 600}
	r := New(DefaultStyle(), DefaultLabelOptions())
	f := frame(t)
	f.Hover = interact.Hover{Kind: interact.HoverEdge, ID: "e2"}
	r.Draw(c, f)

	lines := c.of("line")
	require.Len(t, lines, 2)
	assert.Equal(t, DefaultStyle().EdgeHighlight.Width, lines[1].width)
	assert.Equal(t, DefaultStyle().EdgeHighlight.Color, lines[1].color)
}

func TestDrawNodeStyles(t *testing.T) {
	c := &recorder{w: 800, h: 600}
	st := DefaultStyle()
	r := New(st, DefaultLabelOptions())
	f := frame(t)
	f.Hover = interact.Hover{Kind: interact.HoverNode, ID: "a"}
	f.View.Scale = 2
	r.Draw(c, f)

	fills := c.of("fill")
	require.Len(t, fills, 3)
	assert.Equal(t, st.Self, fills[0].color)
	assert.Equal(t, st.SelfRadius, fills[0].radius)
	assert.Equal(t, st.Level[graph.L3], fills[1].color)
	assert.Equal(t, st.NodeRadius, fills[1].radius, "radius is in screen pixels")
	assert.Equal(t, st.LevelFallback, fills[2].color)

	pos, _ := f.Layout.Position("a")
	assert.Equal(t, f.View.ToScreen(pos), fills[1].a)

	strokes := c.of("stroke")
	require.Len(t, strokes, 3)
	assert.Equal(t, st.NodeOutline.Color, strokes[0].color)
	assert.Equal(t, st.NodeHighlight.Color, strokes[1].color)
}

func TestDrawLabelsEveryNode(t *testing.T) {
	c := &recorder{w: 800, h: 600}
	r := New(DefaultStyle(), DefaultLabelOptions())
	r.Draw(c, frame(t))

	var labels []string
	for _, o := range c.of("text") {
		labels = append(labels, o.text)
	}
	assert.Equal(t, []string{"Me", "Alice", "Bob"}, labels)
	assert.Len(t, r.Labels(), 3)
}

func TestTooltipNode(t *testing.T) {
	r := New(DefaultStyle(), DefaultLabelOptions())
	f := frame(t)
	f.Hover = interact.Hover{Kind: interact.HoverNode, ID: "a"}

	assert.Equal(t, []string{"Alice", "Level: L3", "Tags: 1, 2, 3, 4, 5, 6"}, r.TooltipLines(f))

	f.Hover.ID = "b"
	assert.Equal(t, "Tags: —", r.TooltipLines(f)[2])
}

func TestTooltipEdgeResolvesUnknown(t *testing.T) {
	r := New(DefaultStyle(), DefaultLabelOptions())
	f := frame(t)
	f.Hover = interact.Hover{Kind: interact.HoverEdge, ID: "e3"}

	assert.Equal(t, []string{"Bob ↔ Unknown", "Type: knows", "Strength: normal"}, r.TooltipLines(f))
}

func TestTooltipDrawnAtPointer(t *testing.T) {
	c := &recorder{w: 800, h: 600}
	r := New(DefaultStyle(), DefaultLabelOptions())
	f := frame(t)
	f.Hover = interact.Hover{Kind: interact.HoverEdge, ID: "e1"}
	f.Tooltip = true
	f.Pointer = r2.Vec{X: 50, Y: 60}
	r.Draw(c, f)

	rects := c.of("rect")
	last := rects[len(rects)-1]
	assert.Equal(t, r2.Vec{X: 62, Y: 72}, last.a)
	assert.Equal(t, DefaultStyle().TooltipFill, last.color)
}
