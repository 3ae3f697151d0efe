// Package align performs direct polygon alignment between two normalized
// profiles. It complements the feature-vector distance with a geometric
// residual: the query outline is swept over every cyclic start-point offset
// (optionally mirrored), the optimal rotation for each correspondence is
// solved with the Kabsch method, and the minimum RMSD wins.
//
// The sweep is quadratic in the resample point count and therefore opt-in;
// the matcher only applies it to the top candidates of a ranking.
package align

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/extrusionkit/profilematch/geometry"
	"github.com/extrusionkit/profilematch/normalize"
)

// ErrPointCountMismatch is returned when the two profiles were resampled to
// different point counts and no index correspondence exists.
var ErrPointCountMismatch = errors.New("profiles have different point counts")

// Options contains configuration options for the alignment sweep.
type Options struct {
	// Mirror additionally tries the reflected query outline, matching
	// profiles that are mirror images of each other.
	Mirror bool

	// OffsetStride samples every nth cyclic offset instead of all of them,
	// trading alignment accuracy for speed. Must be >= 1.
	OffsetStride int
}

// DefaultOptions contains the default configuration options for alignment.
var DefaultOptions = Options{
	Mirror:       false,
	OffsetStride: 1,
}

// WithMirror enables matching against the reflected query outline.
func WithMirror() func(*Options) {
	return func(o *Options) { o.Mirror = true }
}

// WithOffsetStride sets the cyclic offset sampling stride.
func WithOffsetStride(n int) func(*Options) {
	return func(o *Options) { o.OffsetStride = n }
}

// Result describes the best alignment found between two profiles.
type Result struct {
	// RMSD is the root-mean-square point distance after alignment.
	RMSD float64
	// Rotation is the rotation (radians) applied to the query for the best fit.
	Rotation float64
	// Mirrored reports whether the best fit used the reflected query.
	Mirrored bool
	// Offset is the cyclic start-point offset of the best correspondence.
	Offset int
}

// Best finds the rigid alignment of query onto ref with minimum residual.
//
// Both profiles must have been normalized with the same point count. The
// returned RMSD is zero (up to floating point) for identical outlines and is
// symmetric in its arguments for full-stride sweeps.
func Best(query, ref *normalize.NormalizedProfile, optFns ...func(*Options)) (Result, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.OffsetStride < 1 {
		return Result{}, fmt.Errorf("offset stride %d must be >= 1", opts.OffsetStride)
	}
	n := len(query.Points)
	if n == 0 || n != len(ref.Points) {
		return Result{}, ErrPointCountMismatch
	}

	best := Result{RMSD: math.Inf(1)}
	sweep(query.Points, ref.Points, false, opts.OffsetStride, &best)
	if opts.Mirror {
		sweep(mirrored(query.Points), ref.Points, true, opts.OffsetStride, &best)
	}
	return best, nil
}

// mirrored reflects the loop across the x axis and reverses traversal order
// so the result keeps counter-clockwise winding.
func mirrored(l geometry.Loop) geometry.Loop {
	n := len(l)
	out := make(geometry.Loop, n)
	for i := range l {
		p := l[(n-i)%n]
		out[i] = geometry.Point{X: p.X, Y: -p.Y}
	}
	return out
}

func sweep(query, ref geometry.Loop, mirroredPass bool, stride int, best *Result) {
	n := len(query)
	for off := 0; off < n; off += stride {
		rot, rmsd := kabsch(query, ref, off)
		if rmsd < best.RMSD {
			best.RMSD = rmsd
			best.Rotation = rot
			best.Mirrored = mirroredPass
			best.Offset = off
		}
	}
}

// kabsch solves the optimal proper rotation mapping query[i] onto
// ref[(i+off) % n] and returns the rotation angle and resulting RMSD.
// Both point sets are re-centered on their correspondence means first.
func kabsch(query, ref geometry.Loop, off int) (rotation, rmsd float64) {
	n := len(query)
	var qm, rm geometry.Point
	for i := 0; i < n; i++ {
		qm = qm.Add(query[i])
		rm = rm.Add(ref[(i+off)%n])
	}
	qm = qm.Scale(1 / float64(n))
	rm = rm.Scale(1 / float64(n))

	// Cross-covariance H = sum q_i r_i^T.
	var h00, h01, h10, h11 float64
	for i := 0; i < n; i++ {
		q := query[i].Sub(qm)
		r := ref[(i+off)%n].Sub(rm)
		h00 += q.X * r.X
		h01 += q.X * r.Y
		h10 += q.Y * r.X
		h11 += q.Y * r.Y
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(2, 2, []float64{h00, h01, h10, h11}), mat.SVDFull) {
		return 0, math.Inf(1)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// R = V U^T, with the determinant sign corrected so R stays a proper
	// rotation rather than a reflection.
	var r mat.Dense
	r.Mul(&v, u.T())
	if mat.Det(&r) < 0 {
		d := mat.NewDense(2, 2, []float64{1, 0, 0, -1})
		var vd mat.Dense
		vd.Mul(&v, d)
		r.Mul(&vd, u.T())
	}
	rotation = math.Atan2(r.At(1, 0), r.At(0, 0))

	sin, cos := math.Sincos(rotation)
	var sum float64
	for i := 0; i < n; i++ {
		q := query[i].Sub(qm)
		rp := ref[(i+off)%n].Sub(rm)
		dx := q.X*cos - q.Y*sin - rp.X
		dy := q.X*sin + q.Y*cos - rp.Y
		sum += dx*dx + dy*dy
	}
	return rotation, math.Sqrt(sum / float64(n))
}
