package geometry

import "math"

// SelfIntersects reports whether any two non-adjacent edges of the loop
// cross. Adjacent edges sharing a vertex are skipped. The check is a plain
// O(n^2) segment sweep; profile outlines are small enough that this is not a
// bottleneck.
func (l Loop) SelfIntersects() bool {
	n := len(l)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := l[i]
		a2 := l[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip the edge itself and the two edges sharing a vertex with it.
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := l[j]
			b2 := l[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports whether segments (a1,a2) and (b1,b2) properly
// intersect, or whether one endpoint lies strictly inside the other segment.
func segmentsCross(a1, a2, b1, b2 Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// orient returns the orientation of c relative to the directed line a->b,
// snapped to zero inside a small tolerance band to absorb rounding error.
func orient(a, b, c Point) float64 {
	v := b.Sub(a).Cross(c.Sub(a))
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}

// onSegment reports whether collinear point p lies within the bounding box of
// segment (a,b), excluding its endpoints.
func onSegment(a, b, p Point) bool {
	if p == a || p == b {
		return false
	}
	return math.Min(a.X, b.X)-1e-12 <= p.X && p.X <= math.Max(a.X, b.X)+1e-12 &&
		math.Min(a.Y, b.Y)-1e-12 <= p.Y && p.Y <= math.Max(a.Y, b.Y)+1e-12
}
