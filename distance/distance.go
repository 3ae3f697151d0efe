package distance

import (
	"fmt"
	"math"

	"github.com/extrusionkit/profilematch/feature"
)

// Metric represents the distance metric used for feature vector comparison.
type Metric int

const (
	// MetricWeightedL2 is the family-weighted Euclidean distance.
	MetricWeightedL2 Metric = iota
	// MetricCosine is the cosine distance (1 - cosine similarity) over the
	// family-weighted vectors.
	MetricCosine
)

func (m Metric) String() string {
	switch m {
	case MetricWeightedL2:
		return "WeightedL2"
	case MetricCosine:
		return "Cosine"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// LayoutMismatchError indicates a comparison between vectors produced under
// different extraction configurations. Such vectors have incompatible
// layouts and no meaningful distance.
type LayoutMismatchError struct {
	A, B feature.Layout
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("layout mismatch: %+v vs %+v", e.A, e.B)
}

// Weights holds per-family multipliers applied before distance computation.
// A weight of zero removes a family from the comparison entirely.
type Weights struct {
	Moments     float64
	Curvature   float64
	Corners     float64
	AspectRatio float64
	Compactness float64
}

// DefaultWeights emphasize the rotation-invariant moment descriptors, with
// curvature shape next and the scalar descriptors as tie-breakers.
var DefaultWeights = Weights{
	Moments:     1.0,
	Curvature:   2.0,
	Corners:     0.05,
	AspectRatio: 0.5,
	Compactness: 2.0,
}

func (w Weights) of(f feature.Family) float64 {
	switch f {
	case feature.FamilyMoments:
		return w.Moments
	case feature.FamilyCurvature:
		return w.Curvature
	case feature.FamilyCorners:
		return w.Corners
	case feature.FamilyAspectRatio:
		return w.AspectRatio
	case feature.FamilyCompactness:
		return w.Compactness
	default:
		return 0
	}
}

// Expand returns the per-element weight slice for a layout.
func (w Weights) Expand(l feature.Layout) []float64 {
	fams := l.Elements()
	out := make([]float64, len(fams))
	for i, f := range fams {
		out[i] = w.of(f)
	}
	return out
}

// Func is a function type for distance calculation over raw weighted values.
type Func func(a, b, weights []float64) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricWeightedL2:
		return weightedL2, nil
	case MetricCosine:
		return weightedCosine, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// Between computes the distance between two feature vectors.
//
// It fails with *LayoutMismatchError when the vectors were produced under
// different extraction configurations. The result is non-negative, zero for
// identical vectors, and symmetric in a and b.
func Between(a, b feature.Vector, m Metric, w Weights) (float64, error) {
	if a.Layout != b.Layout {
		return 0, &LayoutMismatchError{A: a.Layout, B: b.Layout}
	}
	fn, err := Provider(m)
	if err != nil {
		return 0, err
	}
	return fn(a.Values, b.Values, w.Expand(a.Layout)), nil
}

// Similarity maps a non-negative distance onto the bounded range (0, 1],
// with 1 meaning identical.
func Similarity(d float64) float64 {
	return 1 / (1 + d)
}

func weightedL2(a, b, weights []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += weights[i] * d * d
	}
	return math.Sqrt(sum)
}

func weightedCosine(a, b, weights []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		wa := weights[i] * a[i]
		wb := weights[i] * b[i]
		dot += wa * wb
		na += wa * wa
		nb += wb * wb
	}
	if na == 0 || nb == 0 {
		if na == nb {
			return 0
		}
		return 1
	}
	cos := dot / math.Sqrt(na*nb)
	if cos > 1 {
		cos = 1
	}
	return 1 - cos
}
