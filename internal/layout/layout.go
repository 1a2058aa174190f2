// Package layout owns the per-node simulation state of a graph view.
package layout

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/graph"
)

// SeedRadiusFactor scales min(width, height) to the seeding circle radius.
const SeedRadiusFactor = 0.35

// Particle is the simulation state of one node.
type Particle struct {
	Pos    r2.Vec // world space
	Vel    r2.Vec
	Pinned bool
}

// Bounds is the drawable area in world units, anchored at the origin.
type Bounds struct {
	Width, Height float64
}

// Center returns the geometric center of b.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: b.Width / 2, Y: b.Height / 2}
}

// SeedRadius returns the radius of the seeding circle for b.
func (b Bounds) SeedRadius() float64 {
	return SeedRadiusFactor * math.Min(b.Width, b.Height)
}

// State holds one particle per live node id. It is the only writer of
// particle positions.
type State struct {
	particles   map[string]*Particle
	order       []string
	fingerprint uint64
	seeded      bool
	pinned      string
}

// New returns an empty state. The first Reconcile always seeds.
func New() *State {
	return &State{particles: make(map[string]*Particle)}
}

// Fingerprint hashes the ordered id sequence of nodes.
func Fingerprint(nodes []graph.Node) uint64 {
	d := xxhash.New()
	for _, n := range nodes {
		_, _ = d.WriteString(n.ID)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Reconcile rebuilds every particle when the node id sequence changed
// since the last call and is a no-op otherwise. Rebuilt particles sit
// evenly spaced on a circle around center, in node order, at rest.
// It reports whether a reseed happened.
func (s *State) Reconcile(nodes []graph.Node, center r2.Vec, radius float64) bool {
	fp := Fingerprint(nodes)
	if s.seeded && fp == s.fingerprint {
		return false
	}

	s.particles = make(map[string]*Particle, len(nodes))
	s.order = s.order[:0]
	s.pinned = ""
	step := 2 * math.Pi / math.Max(1, float64(len(nodes)))
	for i, n := range nodes {
		if _, dup := s.particles[n.ID]; dup {
			continue
		}
		angle := float64(i)*step - math.Pi/2
		s.particles[n.ID] = &Particle{
			Pos: r2.Vec{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			},
		}
		s.order = append(s.order, n.ID)
	}
	s.fingerprint = fp
	s.seeded = true
	return true
}

// Len returns the number of particles.
func (s *State) Len() int { return len(s.order) }

// IDs returns particle ids in seeding order. The slice must not be modified.
func (s *State) IDs() []string { return s.order }

// Get returns the particle for id.
func (s *State) Get(id string) (*Particle, bool) {
	p, ok := s.particles[id]
	return p, ok
}

// Position returns the world position of id.
func (s *State) Position(id string) (r2.Vec, bool) {
	p, ok := s.particles[id]
	if !ok {
		return r2.Vec{}, false
	}
	return p.Pos, true
}

// Each calls fn for every particle in seeding order.
func (s *State) Each(fn func(id string, p *Particle)) {
	for _, id := range s.order {
		fn(id, s.particles[id])
	}
}

// Pin marks id as pinned and snaps it to pos at rest. Any previously
// pinned particle is released first.
func (s *State) Pin(id string, pos r2.Vec) bool {
	p, ok := s.particles[id]
	if !ok {
		return false
	}
	if s.pinned != "" && s.pinned != id {
		s.Unpin(s.pinned)
	}
	p.Pinned = true
	p.Pos = pos
	p.Vel = r2.Vec{}
	s.pinned = id
	return true
}

// MovePinned overwrites the position of the pinned particle. Calls for
// any other id are ignored.
func (s *State) MovePinned(id string, pos r2.Vec) bool {
	if id == "" || id != s.pinned {
		return false
	}
	p := s.particles[id]
	p.Pos = pos
	p.Vel = r2.Vec{}
	return true
}

// Unpin releases id.
func (s *State) Unpin(id string) {
	if p, ok := s.particles[id]; ok {
		p.Pinned = false
	}
	if s.pinned == id {
		s.pinned = ""
	}
}

// Pinned returns the id of the pinned particle, if any.
func (s *State) Pinned() (string, bool) {
	return s.pinned, s.pinned != ""
}

// Integrate moves every unpinned particle by its velocity and clamps it
// to margin inside b.
func (s *State) Integrate(b Bounds, margin float64) {
	for _, id := range s.order {
		p := s.particles[id]
		if p.Pinned {
			continue
		}
		p.Pos = r2.Add(p.Pos, p.Vel)
		p.Pos.X = clamp(p.Pos.X, margin, b.Width-margin)
		p.Pos.Y = clamp(p.Pos.Y, margin, b.Height-margin)
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
