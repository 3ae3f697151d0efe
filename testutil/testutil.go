package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/extrusionkit/profilematch/geometry"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Intn returns a non-negative pseudo-random number in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Square returns a square outline with the given side length, centered on
// the origin, counter-clockwise.
func Square(side float64) geometry.Profile {
	h := side / 2
	return geometry.Profile{Outer: geometry.Loop{
		{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
	}}
}

// Rectangle returns a w x h rectangle outline centered on the origin,
// counter-clockwise.
func Rectangle(w, h float64) geometry.Profile {
	hw, hh := w/2, h/2
	return geometry.Profile{Outer: geometry.Loop{
		{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh},
	}}
}

// RegularPolygon returns an n-gon inscribed in a circle of radius r,
// centered on the origin. Large n approximates a circle.
func RegularPolygon(n int, r float64) geometry.Profile {
	loop := make(geometry.Loop, n)
	for i := range loop {
		theta := 2 * math.Pi * float64(i) / float64(n)
		loop[i] = geometry.Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return geometry.Profile{Outer: loop}
}

// LShape returns an L-section: a square of the given size with a quadrant
// removed.
func LShape(size float64) geometry.Profile {
	h := size / 2
	return geometry.Profile{Outer: geometry.Loop{
		{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: 0},
		{X: 0, Y: 0}, {X: 0, Y: h}, {X: -h, Y: h},
	}}
}

// HollowSquare returns a square tube cross-section: a square outline with a
// concentric square hole of the given wall thickness.
func HollowSquare(side, wall float64) geometry.Profile {
	outer := Square(side).Outer
	inner := Square(side - 2*wall).Outer
	return geometry.Profile{Outer: outer, Holes: []geometry.Loop{inner}}
}

// Jitter returns a copy of the profile with every vertex displaced by a
// uniform random offset in [-amount, amount] per axis.
func Jitter(p geometry.Profile, amount float64, rng *RNG) geometry.Profile {
	displace := func(pt geometry.Point) geometry.Point {
		return geometry.Point{
			X: pt.X + (rng.Float64()*2-1)*amount,
			Y: pt.Y + (rng.Float64()*2-1)*amount,
		}
	}
	out := geometry.Profile{Outer: p.Outer.Transform(displace)}
	for _, hole := range p.Holes {
		out.Holes = append(out.Holes, hole.Transform(displace))
	}
	return out
}

// Collinear returns a degenerate profile whose points all lie on one line.
func Collinear() geometry.Profile {
	return geometry.Profile{Outer: geometry.Loop{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
	}}
}

// Bowtie returns a self-intersecting outline with nonzero enclosed area, so
// the crossing itself is what normalization rejects.
func Bowtie() geometry.Profile {
	return geometry.Profile{Outer: geometry.Loop{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 2},
	}}
}
