// Package viewport maps between world space and screen space.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultMinScale = 0.4
	DefaultMaxScale = 2.5
)

// Viewport is the pan/zoom transform: screen = world*Scale + Offset.
type Viewport struct {
	Scale    float64
	Offset   r2.Vec
	MinScale float64
	MaxScale float64
}

// New returns the identity transform bounded to [minScale, maxScale].
func New(minScale, maxScale float64) *Viewport {
	return &Viewport{Scale: 1, MinScale: minScale, MaxScale: maxScale}
}

// Default returns the identity transform with the default scale bounds.
func Default() *Viewport {
	return New(DefaultMinScale, DefaultMaxScale)
}

// ToScreen maps a world point to screen space.
func (v *Viewport) ToScreen(w r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(v.Scale, w), v.Offset)
}

// ToWorld maps a screen point to world space.
func (v *Viewport) ToWorld(s r2.Vec) r2.Vec {
	return r2.Scale(1/v.Scale, r2.Sub(s, v.Offset))
}

// ZoomAt multiplies the scale by factor, clamped to the bounds, keeping
// the world point under screen point p fixed on screen.
func (v *Viewport) ZoomAt(p r2.Vec, factor float64) {
	world := v.ToWorld(p)
	v.Scale = math.Max(v.MinScale, math.Min(v.MaxScale, v.Scale*factor))
	v.Offset = r2.Sub(p, r2.Scale(v.Scale, world))
}

// PanBy shifts the offset by a screen-space delta. Panning is unbounded.
func (v *Viewport) PanBy(d r2.Vec) {
	v.Offset = r2.Add(v.Offset, d)
}

// Reset restores the identity transform.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.Offset = r2.Vec{}
}
