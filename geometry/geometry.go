// Package geometry defines the raw 2D profile types shared by all stages of
// the matching pipeline, together with the polygon primitives they need
// (signed area, perimeter, area centroid, bounding box, rigid transforms and
// content fingerprinting).
//
// Coordinates follow mathematical conventions: x increases to the right,
// y increases up the page. A loop stores its vertices in order without
// duplicating the closing point; the segment from the last vertex back to the
// first is implied.
package geometry

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Point holds a 2D coordinate value.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Norm() }

// Rotate returns p rotated by theta radians around the origin.
func (p Point) Rotate(theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// Loop is an ordered sequence of vertices forming a closed polygon.
// The closing edge from the last vertex to the first is implied; the start
// point is never stored twice.
type Loop []Point

// Profile is a die cross-section outline: one outer boundary plus optional
// inner holes. The outer loop must be non-self-intersecting with at least
// three distinct vertices; holes are expected to lie inside the outer loop.
type Profile struct {
	Outer Loop
	Holes []Loop
}

// SignedArea returns the signed area of the loop via the shoelace formula.
// Counter-clockwise loops have positive area.
func (l Loop) SignedArea() float64 {
	n := len(l)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range l {
		j := (i + 1) % n
		sum += l[i].Cross(l[j])
	}
	return sum / 2
}

// Perimeter returns the total edge length of the loop, including the implied
// closing edge.
func (l Loop) Perimeter() float64 {
	n := len(l)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := range l {
		sum += l[i].Distance(l[(i+1)%n])
	}
	return sum
}

// Centroid returns the area centroid of the loop. For degenerate loops with
// near-zero area it falls back to the vertex mean.
func (l Loop) Centroid() Point {
	n := len(l)
	if n == 0 {
		return Point{}
	}
	area := l.SignedArea()
	if math.Abs(area) < 1e-12 {
		var c Point
		for _, p := range l {
			c = c.Add(p)
		}
		return c.Scale(1 / float64(n))
	}
	var cx, cy float64
	for i := range l {
		j := (i + 1) % n
		cross := l[i].Cross(l[j])
		cx += (l[i].X + l[j].X) * cross
		cy += (l[i].Y + l[j].Y) * cross
	}
	inv := 1 / (6 * area)
	return Point{cx * inv, cy * inv}
}

// BoundingBox returns the axis-aligned bounding box corners (min, max) of the
// loop. Returns zero points for an empty loop.
func (l Loop) BoundingBox() (min, max Point) {
	if len(l) == 0 {
		return Point{}, Point{}
	}
	min, max = l[0], l[0]
	for _, p := range l[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Reversed returns a copy of the loop with the vertex order reversed,
// flipping its winding direction.
func (l Loop) Reversed() Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// Dedupe returns a copy of the loop with consecutive vertices closer than
// eps merged, including the pair formed by the last and first vertex.
func (l Loop) Dedupe(eps float64) Loop {
	if len(l) == 0 {
		return nil
	}
	out := make(Loop, 0, len(l))
	for _, p := range l {
		if len(out) > 0 && out[len(out)-1].Distance(p) <= eps {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].Distance(out[len(out)-1]) <= eps {
		out = out[:len(out)-1]
	}
	return out
}

// Transform applies fn to every vertex of the loop and returns the result.
func (l Loop) Transform(fn func(Point) Point) Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[i] = fn(p)
	}
	return out
}

// Rotate returns the profile rotated by theta radians around the origin.
func (p Profile) Rotate(theta float64) Profile {
	return p.transform(func(pt Point) Point { return pt.Rotate(theta) })
}

// Scale returns the profile uniformly scaled by s around the origin.
func (p Profile) Scale(s float64) Profile {
	return p.transform(func(pt Point) Point { return pt.Scale(s) })
}

// Translate returns the profile translated by d.
func (p Profile) Translate(d Point) Profile {
	return p.transform(func(pt Point) Point { return pt.Add(d) })
}

func (p Profile) transform(fn func(Point) Point) Profile {
	out := Profile{Outer: p.Outer.Transform(fn)}
	if len(p.Holes) > 0 {
		out.Holes = make([]Loop, len(p.Holes))
		for i, h := range p.Holes {
			out.Holes[i] = h.Transform(fn)
		}
	}
	return out
}

// Fingerprint returns a content hash of the profile's vertex data.
// Derived values cached per profile are keyed by this fingerprint so that any
// coordinate change invalidates them, independent of object identity.
func (p Profile) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	writeLoop := func(l Loop) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(l)))
		h.Write(buf[:])
		for _, pt := range l {
			write(pt.X)
			write(pt.Y)
		}
	}
	writeLoop(p.Outer)
	for _, hole := range p.Holes {
		writeLoop(hole)
	}
	return h.Sum64()
}
