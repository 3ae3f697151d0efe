// Package feature computes fixed-layout descriptor vectors from normalized
// profiles. The vector layout is fully determined by the Layout configuration
// so that two vectors built under the same configuration are directly
// comparable element by element.
package feature

import (
	"errors"
	"fmt"
	"math"

	"github.com/extrusionkit/profilematch/normalize"
)

// Family identifies a descriptor family within a feature vector.
type Family int

const (
	// FamilyMoments are the seven Hu-style moment invariants.
	FamilyMoments Family = iota
	// FamilyCurvature is the turning-angle histogram.
	FamilyCurvature
	// FamilyCorners is the detected corner count.
	FamilyCorners
	// FamilyAspectRatio is the principal-axis elongation ratio.
	FamilyAspectRatio
	// FamilyCompactness is the isoperimetric ratio 4*pi*A/P^2.
	FamilyCompactness
)

func (f Family) String() string {
	switch f {
	case FamilyMoments:
		return "moments"
	case FamilyCurvature:
		return "curvature"
	case FamilyCorners:
		return "corners"
	case FamilyAspectRatio:
		return "aspect_ratio"
	case FamilyCompactness:
		return "compactness"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// momentCount is the number of Hu-style invariants emitted by FamilyMoments.
const momentCount = 7

// Layout enumerates the descriptor families a vector carries and fixes their
// order: moments first, then curvature histogram bins, then the scalar
// descriptors (corner count, aspect ratio, compactness).
//
// Layout is a comparable value; two vectors are comparable exactly when
// their layouts are equal.
type Layout struct {
	// Moments enables the seven moment invariants.
	Moments bool
	// CurvatureBins is the number of turning-angle histogram bins.
	// Zero disables the curvature family.
	CurvatureBins int
	// CornerCount enables the corner count scalar.
	CornerCount bool
	// AspectRatio enables the elongation scalar.
	AspectRatio bool
	// Compactness enables the isoperimetric scalar.
	Compactness bool
}

// DefaultLayout enables every descriptor family with a 16-bin curvature
// histogram.
var DefaultLayout = Layout{
	Moments:       true,
	CurvatureBins: 16,
	CornerCount:   true,
	AspectRatio:   true,
	Compactness:   true,
}

// Len returns the total vector length the layout produces.
func (l Layout) Len() int {
	n := 0
	if l.Moments {
		n += momentCount
	}
	n += l.CurvatureBins
	if l.CornerCount {
		n++
	}
	if l.AspectRatio {
		n++
	}
	if l.Compactness {
		n++
	}
	return n
}

// Elements returns the family tag of every vector element, in layout order.
func (l Layout) Elements() []Family {
	out := make([]Family, 0, l.Len())
	if l.Moments {
		for i := 0; i < momentCount; i++ {
			out = append(out, FamilyMoments)
		}
	}
	for i := 0; i < l.CurvatureBins; i++ {
		out = append(out, FamilyCurvature)
	}
	if l.CornerCount {
		out = append(out, FamilyCorners)
	}
	if l.AspectRatio {
		out = append(out, FamilyAspectRatio)
	}
	if l.Compactness {
		out = append(out, FamilyCompactness)
	}
	return out
}

// Vector is a fixed-layout descriptor vector. Values has length Layout.Len().
type Vector struct {
	Layout Layout
	Values []float64
}

// ErrTooFewSamples is returned when a profile has too few points for a
// requested descriptor family.
var ErrTooFewSamples = errors.New("too few samples for descriptor")

// FeatureError reports that a requested descriptor family cannot be computed
// from the given profile.
//
// The underlying reason can be accessed via errors.Unwrap.
type FeatureError struct {
	Family Family
	Need   int
	Got    int
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("%s: need %d points, got %d", e.Family, e.Need, e.Got)
}

func (e *FeatureError) Unwrap() error { return ErrTooFewSamples }

// Options contains configuration options for feature extraction.
type Options struct {
	// Layout selects the descriptor families to compute.
	Layout Layout

	// CurvatureWindow is the half-width, in samples, of the turning-angle
	// window used for curvature and corner detection.
	CurvatureWindow int

	// CornerAngle is the turning-angle magnitude (radians) above which a
	// sample counts as a corner candidate.
	CornerAngle float64

	// MinCornerSeparation is the minimum arc length between two detected
	// corners, as a fraction of the (unit) perimeter. Candidates closer than
	// this are merged into one corner.
	MinCornerSeparation float64
}

// DefaultOptions contains the default configuration options for extraction.
var DefaultOptions = Options{
	Layout:              DefaultLayout,
	CurvatureWindow:     2,
	CornerAngle:         math.Pi / 6,
	MinCornerSeparation: 0.02,
}

// WithLayout selects the descriptor families to compute.
func WithLayout(l Layout) func(*Options) {
	return func(o *Options) { o.Layout = l }
}

// WithCurvatureWindow sets the turning-angle window half-width in samples.
func WithCurvatureWindow(w int) func(*Options) {
	return func(o *Options) { o.CurvatureWindow = w }
}

// WithCornerAngle sets the corner-detection threshold in radians.
func WithCornerAngle(rad float64) func(*Options) {
	return func(o *Options) { o.CornerAngle = rad }
}

// Extract computes the feature vector of a normalized profile.
//
// The output layout follows opts.Layout; elements appear in the fixed order
// documented on Layout. Extract fails with *FeatureError when the profile
// carries too few points for a requested family.
func Extract(np *normalize.NormalizedProfile, optFns ...func(*Options)) (Vector, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	n := len(np.Points)
	needsCurvature := opts.Layout.CurvatureBins > 0 || opts.Layout.CornerCount
	if needsCurvature {
		need := 2*opts.CurvatureWindow + 1
		if n < need {
			fam := FamilyCurvature
			if opts.Layout.CurvatureBins == 0 {
				fam = FamilyCorners
			}
			return Vector{}, &FeatureError{Family: fam, Need: need, Got: n}
		}
	}
	if opts.Layout.Moments && n < 3 {
		return Vector{}, &FeatureError{Family: FamilyMoments, Need: 3, Got: n}
	}

	values := make([]float64, 0, opts.Layout.Len())

	if opts.Layout.Moments {
		values = append(values, huInvariants(np)...)
	}

	var turns []float64
	if needsCurvature {
		turns = turningAngles(np.Points, opts.CurvatureWindow)
	}
	if opts.Layout.CurvatureBins > 0 {
		values = append(values, curvatureHistogram(turns, opts.Layout.CurvatureBins)...)
	}
	if opts.Layout.CornerCount {
		values = append(values, float64(countCorners(turns, opts)))
	}
	if opts.Layout.AspectRatio {
		values = append(values, aspectRatio(np.Points))
	}
	if opts.Layout.Compactness {
		area := np.Points.SignedArea()
		perim := np.Points.Perimeter()
		values = append(values, 4*math.Pi*math.Abs(area)/(perim*perim))
	}

	return Vector{Layout: opts.Layout, Values: values}, nil
}
