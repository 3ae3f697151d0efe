package normalize

import (
	"errors"
	"fmt"
	"math"

	"github.com/extrusionkit/profilematch/geometry"
)

var (
	// ErrTooFewPoints is returned when a loop has fewer than 3 distinct points.
	ErrTooFewPoints = errors.New("fewer than 3 distinct points")
	// ErrZeroArea is returned when a loop encloses no measurable area.
	ErrZeroArea = errors.New("zero enclosed area")
	// ErrSelfIntersecting is returned when a loop's edges cross each other.
	ErrSelfIntersecting = errors.New("self-intersecting outline")
)

// GeometryError reports a degenerate input loop.
//
// Loop identifies the offending loop: -1 for the outer boundary, otherwise
// the hole index. The underlying reason can be accessed via errors.Unwrap.
type GeometryError struct {
	Loop   int
	Reason error
}

func (e *GeometryError) Error() string {
	if e.Loop < 0 {
		return fmt.Sprintf("outer loop: %v", e.Reason)
	}
	return fmt.Sprintf("hole %d: %v", e.Loop, e.Reason)
}

func (e *GeometryError) Unwrap() error { return e.Reason }

// Options contains configuration options for normalization.
type Options struct {
	// PointCount is the number of uniformly spaced samples the outer loop is
	// resampled to. Must be >= 8.
	PointCount int

	// CornerAngle is the turning-angle threshold (radians) above which a
	// source vertex is treated as a sharp corner and preserved exactly in the
	// resampled loop.
	CornerAngle float64

	// Epsilon is the distance below which consecutive vertices are merged.
	Epsilon float64
}

// DefaultOptions contains the default configuration options for normalization.
var DefaultOptions = Options{
	PointCount:  256,
	CornerAngle: math.Pi / 6,
	Epsilon:     1e-9,
}

// WithPointCount sets the resample point count.
func WithPointCount(n int) func(*Options) {
	return func(o *Options) { o.PointCount = n }
}

// WithCornerAngle sets the corner-preservation threshold in radians.
func WithCornerAngle(rad float64) func(*Options) {
	return func(o *Options) { o.CornerAngle = rad }
}

// NormalizedProfile is the canonical, comparable form of a profile.
// It is immutable once created; all fields are derived from the source
// profile and the normalization options.
type NormalizedProfile struct {
	// Points is the outer loop resampled to PointCount vertices at uniform
	// arc-length spacing, counter-clockwise, centered on the centroid,
	// scaled to unit perimeter, anchor vertex on the positive x axis.
	Points geometry.Loop

	// Holes carries the inner loops under the same centering, scaling and
	// rotation, wound clockwise. Holes are not resampled; they contribute to
	// moment descriptors with their exact vertices.
	Holes []geometry.Loop

	// PointCount records the resample count the profile was built with.
	PointCount int
}

// Normalize converts a raw profile into its canonical form.
//
// It fails with *GeometryError when the outer loop (or any hole) is
// degenerate: fewer than 3 distinct vertices, no enclosed area, or a
// self-intersecting outline.
func Normalize(p geometry.Profile, optFns ...func(*Options)) (*NormalizedProfile, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.PointCount < 8 {
		return nil, fmt.Errorf("point count %d too small (minimum 8)", opts.PointCount)
	}

	outer, err := validateLoop(p.Outer, -1, opts.Epsilon)
	if err != nil {
		return nil, err
	}
	holes := make([]geometry.Loop, 0, len(p.Holes))
	for i, h := range p.Holes {
		clean, err := validateLoop(h, i, opts.Epsilon)
		if err != nil {
			return nil, err
		}
		holes = append(holes, clean)
	}

	// Center on the outer loop's area centroid.
	centroid := outer.Centroid()
	center := func(pt geometry.Point) geometry.Point { return pt.Sub(centroid) }
	outer = outer.Transform(center)
	for i := range holes {
		holes[i] = holes[i].Transform(center)
	}

	// Scale to unit outer perimeter.
	scale := 1 / outer.Perimeter()
	shrink := func(pt geometry.Point) geometry.Point { return pt.Scale(scale) }
	outer = outer.Transform(shrink)
	for i := range holes {
		holes[i] = holes[i].Transform(shrink)
	}

	// Canonical winding: outer counter-clockwise, holes clockwise.
	if outer.SignedArea() < 0 {
		outer = outer.Reversed()
	}
	for i := range holes {
		if holes[i].SignedArea() > 0 {
			holes[i] = holes[i].Reversed()
		}
	}

	// Rotate the anchor vertex onto the positive x axis. The anchor is the
	// vertex farthest from the centroid, ties broken by vertex index so the
	// choice is stable under rigid motion of the input.
	anchor := anchorIndex(outer)
	theta := -math.Atan2(outer[anchor].Y, outer[anchor].X)
	spin := func(pt geometry.Point) geometry.Point { return pt.Rotate(theta) }
	outer = outer.Transform(spin)
	for i := range holes {
		holes[i] = holes[i].Transform(spin)
	}

	points := resample(outer, anchor, opts)

	return &NormalizedProfile{
		Points:     points,
		Holes:      holes,
		PointCount: opts.PointCount,
	}, nil
}

func validateLoop(l geometry.Loop, idx int, eps float64) (geometry.Loop, error) {
	clean := l.Dedupe(eps)
	if len(clean) < 3 {
		return nil, &GeometryError{Loop: idx, Reason: ErrTooFewPoints}
	}
	if math.Abs(clean.SignedArea()) < eps {
		return nil, &GeometryError{Loop: idx, Reason: ErrZeroArea}
	}
	if clean.SelfIntersects() {
		return nil, &GeometryError{Loop: idx, Reason: ErrSelfIntersecting}
	}
	return clean, nil
}

// anchorIndex returns the index of the vertex farthest from the origin.
// Ties go to the lowest index.
func anchorIndex(l geometry.Loop) int {
	best := 0
	bestDist := l[0].Norm()
	for i, p := range l[1:] {
		if d := p.Norm(); d > bestDist+1e-12 {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

// resample produces n points at uniform arc-length spacing along the loop,
// walking counter-clockwise from the start vertex. Source vertices whose
// turning angle exceeds the corner threshold are snapped back into the
// result so that sharp features survive resampling.
func resample(l geometry.Loop, start int, opts Options) geometry.Loop {
	n := len(l)
	// Rotate vertex order so the walk begins at the anchor.
	rot := make(geometry.Loop, n)
	for i := range l {
		rot[i] = l[(start+i)%n]
	}

	// Cumulative arc length per source vertex; cum[n] is the full perimeter.
	cum := make([]float64, n+1)
	for i := 0; i < n; i++ {
		cum[i+1] = cum[i] + rot[i].Distance(rot[(i+1)%n])
	}
	total := cum[n]

	out := make(geometry.Loop, opts.PointCount)
	seg := 0
	for k := 0; k < opts.PointCount; k++ {
		s := total * float64(k) / float64(opts.PointCount)
		for seg < n-1 && cum[seg+1] <= s {
			seg++
		}
		segLen := cum[seg+1] - cum[seg]
		t := 0.0
		if segLen > 0 {
			t = (s - cum[seg]) / segLen
		}
		a := rot[seg]
		b := rot[(seg+1)%n]
		out[k] = geometry.Point{
			X: a.X + (b.X-a.X)*t,
			Y: a.Y + (b.Y-a.Y)*t,
		}
	}

	// Corner preservation: snap the nearest sample onto each sharp vertex.
	for i := 1; i < n; i++ {
		prev := rot[(i-1+n)%n]
		next := rot[(i+1)%n]
		in := rot[i].Sub(prev)
		outv := next.Sub(rot[i])
		turn := math.Atan2(in.Cross(outv), in.Dot(outv))
		if math.Abs(turn) < opts.CornerAngle {
			continue
		}
		k := int(math.Round(cum[i] / total * float64(opts.PointCount)))
		if k > 0 && k < opts.PointCount {
			out[k] = rot[i]
		}
	}

	return out
}
