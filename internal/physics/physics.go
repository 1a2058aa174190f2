// Package physics advances a layout.State one time step at a time.
//
// Each step costs O(n²) in the node count because repulsion is computed
// for every unordered pair. This is fine for personal networks of a few
// hundred contacts and is not spatially partitioned.
package physics

import (
	"math"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
	"github.com/olivierh59500/netgraph/internal/layout"
)

// Params holds the force constants.
type Params struct {
	Repulsion  float64
	Spring     float64
	CenterPull float64
	Damping    float64
	Epsilon    float64
	Margin     float64 // keep-out band along the bounds
}

// DefaultParams returns the constants the layout is tuned for.
func DefaultParams() Params {
	return Params{
		Repulsion:  9000,
		Spring:     0.004,
		CenterPull: 0.002,
		Damping:    0.86,
		Epsilon:    0.01,
		Margin:     20,
	}
}

// Simulator applies repulsion, spring and centering forces. It is the
// only writer of particle velocities.
type Simulator struct {
	Params Params
	noise  *perlin.Perlin
}

// New returns a simulator using p.
func New(p Params) *Simulator {
	return &Simulator{
		Params: p,
		noise:  perlin.NewPerlin(2, 2, 3, 1),
	}
}

// Step advances s by one tick. Pinned particles receive no force and are
// not integrated; edges with a missing endpoint are skipped.
func (sim *Simulator) Step(s *layout.State, edges []graph.Edge, b layout.Bounds) {
	p := sim.Params

	s.Each(func(_ string, pt *layout.Particle) {
		if pt.Pinned {
			pt.Vel = r2.Vec{}
			return
		}
		pt.Vel = r2.Scale(p.Damping, pt.Vel)
	})

	ids := s.IDs()
	for i := 0; i < len(ids); i++ {
		a, _ := s.Get(ids[i])
		if a.Pinned {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			c, _ := s.Get(ids[j])
			if c.Pinned {
				continue
			}
			f := sim.repulse(a.Pos, c.Pos, i, j)
			a.Vel = r2.Add(a.Vel, f)
			c.Vel = r2.Sub(c.Vel, f)
		}
	}

	for _, e := range edges {
		from, ok1 := s.Get(e.FromID)
		to, ok2 := s.Get(e.ToID)
		if !ok1 || !ok2 || from.Pinned || to.Pinned {
			continue
		}
		f := r2.Scale(p.Spring, r2.Sub(to.Pos, from.Pos))
		from.Vel = r2.Add(from.Vel, f)
		to.Vel = r2.Sub(to.Vel, f)
	}

	center := b.Center()
	s.Each(func(_ string, pt *layout.Particle) {
		if pt.Pinned {
			return
		}
		pt.Vel = r2.Add(pt.Vel, r2.Scale(p.CenterPull, r2.Sub(center, pt.Pos)))
	})

	s.Integrate(b, p.Margin)
}

// repulse returns the force pushing a away from c. A coincident pair is
// treated as one unit apart along a direction derived from the pair.
func (sim *Simulator) repulse(a, c r2.Vec, i, j int) r2.Vec {
	eps := sim.Params.Epsilon
	d := r2.Sub(a, c)
	if r2.Norm2(d) < eps {
		theta := 2 * math.Pi * sim.noise.Noise1D(float64(i)*0.37+float64(j)*0.11+0.5)
		d = r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	dist2 := r2.Norm2(d) + eps
	force := sim.Params.Repulsion / dist2
	return r2.Scale(force/math.Sqrt(dist2), d)
}
