package scene

import (
	"image/color"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/layout"
	"github.com/olivierh59500/netgraph/internal/metrics"
	"github.com/olivierh59500/netgraph/internal/render"
)

type testSurface struct {
	w, h     float64
	repaints int
}

func (s *testSurface) Size() (float64, float64) { return s.w, s.h }
func (s *testSurface) Repaint()                 { s.repaints++ }

type countingCanvas struct {
	w, h  float64
	texts []string
	nodes int
}

func (c *countingCanvas) Size() (float64, float64)                           { return c.w, c.h }
func (c *countingCanvas) Clear(color.Color)                                  {}
func (c *countingCanvas) Line(_, _ r2.Vec, _ float64, _ color.Color)         {}
func (c *countingCanvas) FillCircle(r2.Vec, float64, color.Color)            { c.nodes++ }
func (c *countingCanvas) StrokeCircle(r2.Vec, float64, float64, color.Color) {}
func (c *countingCanvas) FillRect(render.Box, color.Color)                   {}
func (c *countingCanvas) Text(s string, _ r2.Vec, _ color.Color)             { c.texts = append(c.texts, s) }
func (c *countingCanvas) MeasureText(s string) (float64, float64)            { return float64(6 * len(s)), 16 }

func testGraph() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "me", DisplayName: "Me", IsSelf: true, Level: graph.L1},
		{ID: "a", DisplayName: "Alice", Level: graph.L2},
		{ID: "b", DisplayName: "Bob", Level: graph.L3},
	}
	edges := graph.Dedupe([]graph.RawEdge{
		{ID: "e1", FromID: "me", ToID: "a", Type: "knows"},
		{ID: "e2", FromID: "a", ToID: "me", Type: "knows"},
	})
	return nodes, edges
}

func snapshot(l *layout.State) map[string]layout.Particle {
	out := map[string]layout.Particle{}
	l.Each(func(id string, p *layout.Particle) { out[id] = *p })
	return out
}

func mounted(t *testing.T) (*Scene, *Queue, *testSurface) {
	t.Helper()
	q := &Queue{}
	s := New(q, DefaultOptions())
	s.Refresh(testGraph())
	surf := &testSurface{w: 800, h: 600}
	s.Mount(surf)
	return s, q, surf
}

func TestMountStartsRunning(t *testing.T) {
	s, q, surf := mounted(t)

	assert.True(t, s.Running())
	assert.Equal(t, 1, q.Pending())
	assert.Equal(t, 3, s.Layout().Len())

	before := snapshot(s.Layout())
	repaints := surf.repaints
	assert.Equal(t, 1, q.Flush())
	assert.NotEqual(t, before, snapshot(s.Layout()), "a tick advances physics")
	assert.Equal(t, repaints+1, surf.repaints, "a tick repaints")
	assert.Equal(t, 1, q.Pending(), "the next tick is scheduled")
}

func TestPauseCancelsFrame(t *testing.T) {
	s, q, _ := mounted(t)

	s.Pause()
	assert.False(t, s.Running())
	assert.Equal(t, 0, q.Pending())

	before := snapshot(s.Layout())
	q.Flush()
	assert.Equal(t, before, snapshot(s.Layout()))

	s.Pause()
	assert.False(t, s.Running())
}

func TestResumeIsIdempotent(t *testing.T) {
	s, q, _ := mounted(t)

	s.Resume()
	s.Resume()
	assert.Equal(t, 1, q.Pending())

	s.Toggle()
	assert.False(t, s.Running())
	s.Toggle()
	assert.True(t, s.Running())
	assert.Equal(t, 1, q.Pending())
}

func TestUnmountKeepsPositions(t *testing.T) {
	s, q, _ := mounted(t)
	for i := 0; i < 10; i++ {
		q.Flush()
	}

	s.Unmount()
	assert.False(t, s.Running())
	assert.False(t, s.Mounted())
	assert.Equal(t, 0, q.Pending())
	before := snapshot(s.Layout())

	s.Mount(&testSurface{w: 800, h: 600})
	assert.True(t, s.Running())
	assert.Equal(t, before, snapshot(s.Layout()), "remount does not reseed")
	assert.Equal(t, 1, q.Pending())
}

func TestRefreshReseedsOnlyOnIDChange(t *testing.T) {
	s, q, _ := mounted(t)
	q.Flush()
	q.Flush()

	nodes, edges := testGraph()
	nodes[1].DisplayName = "Alicia"
	before := snapshot(s.Layout())
	s.Refresh(nodes, edges)
	assert.Equal(t, before, snapshot(s.Layout()))
	assert.Equal(t, "Alicia", s.Lookup().Name("a"))

	nodes = append(nodes, graph.Node{ID: "c", DisplayName: "Carol"})
	s.Refresh(nodes, edges)
	require.Equal(t, 4, s.Layout().Len())
	s.Layout().Each(func(id string, p *layout.Particle) {
		assert.Equal(t, r2.Vec{}, p.Vel, id)
	})
}

func withExtraNodes() ([]graph.Node, []graph.Edge) {
	nodes, edges := testGraph()
	nodes = append(nodes,
		graph.Node{ID: "c", DisplayName: "Carol"},
		graph.Node{ID: "d", DisplayName: "Dave"},
	)
	return nodes, edges
}

func TestReseedUnderMovedView(t *testing.T) {
	tests := []struct {
		name string
		move func(s *Scene)
	}{
		{"panned", func(s *Scene) { s.Viewport().PanBy(r2.Vec{X: 700}) }},
		{"zoomed", func(s *Scene) { s.Viewport().ZoomAt(r2.Vec{X: 50, Y: 50}, 2.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, q, _ := mounted(t)
			q.Flush()
			tt.move(s)

			s.Refresh(withExtraNodes())
			assert.Equal(t, 1.0, s.Viewport().Scale)
			assert.Equal(t, r2.Vec{}, s.Viewport().Offset)

			// Five nodes on a circle of radius 0.35*600 around (400,300).
			seeded := snapshot(s.Layout())
			for i, id := range s.Layout().IDs() {
				angle := float64(i)*2*math.Pi/5 - math.Pi/2
				p := seeded[id].Pos
				assert.InDelta(t, 400+210*math.Cos(angle), p.X, 1e-9, id)
				assert.InDelta(t, 300+210*math.Sin(angle), p.Y, 1e-9, id)
			}

			q.Flush()
			seen := map[r2.Vec]string{}
			s.Layout().Each(func(id string, p *layout.Particle) {
				assert.InDelta(t, seeded[id].Pos.X, p.Pos.X, 5, id)
				assert.InDelta(t, seeded[id].Pos.Y, p.Pos.Y, 5, id)
				other, dup := seen[p.Pos]
				assert.False(t, dup, "%s coincides with %s", id, other)
				seen[p.Pos] = id
			})
		})
	}
}

func TestReseedCancelsDrag(t *testing.T) {
	s, q, _ := mounted(t)
	pos, _ := s.Layout().Position("a")
	s.PointerDown(s.Viewport().ToScreen(pos))
	_, dragging := s.ctl.Dragging()
	require.True(t, dragging)

	s.Refresh(withExtraNodes())
	_, dragging = s.ctl.Dragging()
	assert.False(t, dragging)
	_, pinned := s.Layout().Pinned()
	assert.False(t, pinned)

	s.PointerMove(r2.Vec{X: 100, Y: 100})
	q.Flush()
	got, _ := s.Layout().Position("a")
	assert.NotEqual(t, r2.Vec{X: 100, Y: 100}, got)

	s.PointerUp()
	assert.Empty(t, s.Selected(), "release after a reseed is not a click")
}

func TestRefreshSameIDsKeepsView(t *testing.T) {
	s, _, _ := mounted(t)
	s.Viewport().PanBy(r2.Vec{X: 30, Y: -10})

	s.Refresh(testGraph())
	assert.Equal(t, r2.Vec{X: 30, Y: -10}, s.Viewport().Offset)
}

func TestPointerBeforeMountPanics(t *testing.T) {
	s := New(&Queue{}, DefaultOptions())

	assert.PanicsWithValue(t, ErrNotMounted, func() { s.PointerDown(r2.Vec{}) })
	assert.PanicsWithValue(t, ErrNotMounted, func() { s.PointerMove(r2.Vec{}) })
	assert.PanicsWithValue(t, ErrNotMounted, func() { s.PointerUp() })
	assert.PanicsWithValue(t, ErrNotMounted, func() { s.Wheel(r2.Vec{}, 1) })

	// Toolbar actions are safe while unmounted.
	assert.NotPanics(t, func() {
		s.Pause()
		s.Resume()
		s.ZoomIn()
		s.ResetView()
	})
	assert.False(t, s.Running())
}

func TestDragSurvivesTicks(t *testing.T) {
	s, q, _ := mounted(t)
	pos, ok := s.Layout().Position("a")
	require.True(t, ok)
	screen := s.Viewport().ToScreen(pos)

	s.PointerDown(screen)
	s.PointerMove(r2.Vec{X: 200, Y: 200})
	for i := 0; i < 20; i++ {
		q.Flush()
	}

	got, _ := s.Layout().Position("a")
	assert.Equal(t, s.Viewport().ToWorld(r2.Vec{X: 200, Y: 200}), got)

	s.PointerUp()
	q.Flush()
	moved, _ := s.Layout().Position("a")
	assert.NotEqual(t, got, moved, "released node rejoins the simulation")
}

func TestToolbarZoom(t *testing.T) {
	s, _, _ := mounted(t)
	center := r2.Vec{X: 400, Y: 300}
	anchor := s.Viewport().ToWorld(center)

	s.ZoomIn()
	assert.InDelta(t, 1.12, s.Viewport().Scale, 1e-12)
	got := s.Viewport().ToWorld(center)
	assert.InDelta(t, anchor.X, got.X, 1e-9)
	assert.InDelta(t, anchor.Y, got.Y, 1e-9)

	s.ZoomOut()
	assert.InDelta(t, 1.12*0.88, s.Viewport().Scale, 1e-12)

	s.ResetView()
	assert.Equal(t, 1.0, s.Viewport().Scale)
	assert.Equal(t, r2.Vec{}, s.Viewport().Offset)
}

func TestSmallSurfaceUsesMinimumBounds(t *testing.T) {
	q := &Queue{}
	s := New(q, DefaultOptions())
	s.Refresh(testGraph())
	s.Mount(&testSurface{w: 100, h: 50})

	// Seeded around (160,160) with radius 0.35*320.
	me, _ := s.Layout().Position("me")
	assert.InDelta(t, 160, me.X, 1e-9)
	assert.InDelta(t, 160-112, me.Y, 1e-9)
}

func TestPaint(t *testing.T) {
	s, q, _ := mounted(t)
	q.Flush()
	c := &countingCanvas{w: 800, h: 600}

	before := snapshot(s.Layout())
	s.Paint(c)
	assert.Equal(t, before, snapshot(s.Layout()), "painting never steps")
	assert.Equal(t, 3, c.nodes)
	assert.Equal(t, []string{"Me", "Alice", "Bob"}, c.texts)

	empty := New(&Queue{}, DefaultOptions())
	empty.Mount(&testSurface{w: 800, h: 600})
	c = &countingCanvas{w: 800, h: 600}
	empty.Paint(c)
	assert.Equal(t, []string{render.EmptyMessage}, c.texts)
}

func TestPaintTooltipFollowsHover(t *testing.T) {
	s, _, _ := mounted(t)
	pos, _ := s.Layout().Position("a")
	s.PointerMove(s.Viewport().ToScreen(pos))
	require.True(t, s.Hover().IsNode("a"))

	c := &countingCanvas{w: 800, h: 600}
	s.Paint(c)
	assert.Contains(t, c.texts, "Level: L2")

	s.PointerLeave()
	c = &countingCanvas{w: 800, h: 600}
	s.Paint(c)
	assert.NotContains(t, c.texts, "Level: L2")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	opts := DefaultOptions()
	opts.Metrics = m

	q := &Queue{}
	s := New(q, opts)
	s.Refresh(testGraph())
	s.Mount(&testSurface{w: 800, h: 600})
	q.Flush()
	q.Flush()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reseeds))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Edges))
}
