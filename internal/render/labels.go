package render

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Box is an axis-aligned rectangle in screen space.
type Box struct {
	X, Y, W, H float64
}

// Overlaps reports whether b and o intersect with non-zero area.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X && b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

// LabelOptions controls label geometry.
type LabelOptions struct {
	MaxRunes   int     // longer names are cut to MaxRunes-1 plus an ellipsis
	BaseOffset float64 // distance from the node to the first attempt
	Step       float64 // extra distance per further attempt
	Attempts   int
	Padding    float64 // added to the measured text width
	Height     float64
}

// DefaultLabelOptions returns the standard label geometry.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		MaxRunes:   18,
		BaseOffset: 12,
		Step:       10,
		Attempts:   4,
		Padding:    6,
		Height:     16,
	}
}

// Truncate shortens s to the label rune limit.
func (o LabelOptions) Truncate(s string) string {
	r := []rune(s)
	if o.MaxRunes <= 1 || len(r) <= o.MaxRunes {
		return s
	}
	return string(r[:o.MaxRunes-1]) + "…"
}

// LabelPlacer places label boxes greedily: each label takes the first
// candidate offset that overlaps no earlier label. When every candidate
// collides the last one is used anyway.
type LabelPlacer struct {
	Options LabelOptions
	placed  []Box
}

// NewLabelPlacer returns a placer using o.
func NewLabelPlacer(o LabelOptions) *LabelPlacer {
	return &LabelPlacer{Options: o}
}

// Reset forgets all placed boxes. Call it once per frame.
func (lp *LabelPlacer) Reset() {
	lp.placed = lp.placed[:0]
}

// Placed returns the boxes accepted so far.
func (lp *LabelPlacer) Placed() []Box { return lp.placed }

// Place returns the box for a label of width textW anchored at node,
// pushed away from center.
func (lp *LabelPlacer) Place(node, center r2.Vec, textW float64) Box {
	o := lp.Options
	dirX, dirY := 1.0, 1.0
	if node.X < center.X {
		dirX = -1
	}
	if node.Y < center.Y {
		dirY = -1
	}
	w := textW + o.Padding
	attempts := max(o.Attempts, 1)

	var box Box
	for i := 0; i < attempts; i++ {
		off := o.BaseOffset + float64(i)*o.Step
		x := node.X + off*dirX
		y := node.Y + off*dirY
		box = Box{X: x, Y: y - o.Height/2, W: w, H: o.Height}
		if dirX < 0 {
			box.X = x - w
		}
		if !lp.collides(box) {
			lp.placed = append(lp.placed, box)
			return box
		}
	}
	return box
}

func (lp *LabelPlacer) collides(b Box) bool {
	for _, p := range lp.placed {
		if b.Overlaps(p) {
			return true
		}
	}
	return false
}
