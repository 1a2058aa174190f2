// Package window hosts a scene in a desktop window using Ebitengine.
package window

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/scene"
)

// Loader reads the graph to display. It is called on start and on reload.
type Loader func() ([]graph.Node, []graph.Edge, error)

// Options configures the window.
type Options struct {
	Title   string
	Width   int
	Height  int
	MinSize int
	TPS     int
	Scene   scene.Options
}

// Game is the Ebitengine game driving one scene. It is also the scene's
// surface: Layout records the window size and Draw repaints on request.
type Game struct {
	opts   Options
	log    *zap.Logger
	load   Loader
	queue  *scene.Queue
	scene  *scene.Scene
	width  int
	height int
	dirty  bool
	status string
}

// New loads the graph and mounts a scene sized to the window.
func New(opts Options, load Loader) (*Game, error) {
	g := &Game{
		opts:   opts,
		log:    opts.Scene.Logger,
		load:   load,
		queue:  &scene.Queue{},
		width:  opts.Width,
		height: opts.Height,
		dirty:  true,
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	g.scene = scene.New(g.queue, opts.Scene)
	g.scene.OnSelect(func(id string) {
		g.log.Info("node selected", zap.String("id", id), zap.String("name", g.scene.Lookup().Name(id)))
	})
	if err := g.reload(); err != nil {
		return nil, err
	}
	g.scene.Mount(g)
	return g, nil
}

// Run opens the window and blocks until it is closed.
func Run(opts Options, load Loader) error {
	g, err := New(opts, load)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.TPS)
	ebiten.SetScreenClearedEveryFrame(false)
	defer g.scene.Unmount()
	return ebiten.RunGame(g)
}

// Scene returns the hosted scene.
func (g *Game) Scene() *scene.Scene { return g.scene }

// Size implements scene.Surface.
func (g *Game) Size() (float64, float64) { return float64(g.width), float64(g.height) }

// Repaint implements scene.Surface.
func (g *Game) Repaint() { g.dirty = true }

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	g.handleKeys()
	g.scene.Apply(g.pollPointer())
	g.queue.Flush()
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.dirty {
		return
	}
	g.dirty = false
	g.scene.Paint(canvas{img: screen})

	state := "running"
	if !g.scene.Running() {
		state = "paused"
	}
	line := fmt.Sprintf("%s  nodes: %d  edges: %d  zoom: %.2fx", state, len(g.scene.Lookup()), len(g.scene.Edges()), g.scene.Viewport().Scale)
	if g.status != "" {
		line += "  " + g.status
	}
	ebitenutil.DebugPrintAt(screen, line, 8, g.height-glyphH-4)
}

// Layout tracks the window size, never smaller than MinSize
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(outsideWidth, g.opts.MinSize), max(outsideHeight, g.opts.MinSize)
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.dirty = true
	}
	return w, h
}

// handleKeys processes keyboard shortcuts
func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.scene.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.scene.ResetView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.scene.ZoomIn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.scene.ZoomOut()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if err := g.reload(); err != nil {
			g.log.Error("reload failed", zap.Error(err))
			g.status = "reload failed"
		} else {
			g.status = ""
		}
		g.dirty = true
	}
}

// pollPointer snapshots the mouse for this tick
func (g *Game) pollPointer() scene.Input {
	x, y := ebiten.CursorPosition()
	_, wheelY := ebiten.Wheel()
	return scene.Input{
		Cursor:   r2.Vec{X: float64(x), Y: float64(y)},
		Inside:   ebiten.IsFocused() && x >= 0 && y >= 0 && x < g.width && y < g.height,
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		WheelY:   -wheelY, // Ebitengine reports scrolling up as positive
	}
}

func (g *Game) reload() error {
	nodes, edges, err := g.load()
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	g.scene.Refresh(nodes, edges)
	g.log.Info("graph loaded", zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
	return nil
}
