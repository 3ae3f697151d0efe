package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extrusionkit/profilematch/feature"
	"github.com/extrusionkit/profilematch/normalize"
	"github.com/extrusionkit/profilematch/testutil"
)

func vectorFor(t *testing.T, shape func() *normalize.NormalizedProfile) feature.Vector {
	t.Helper()
	vec, err := feature.Extract(shape())
	require.NoError(t, err)
	return vec
}

func squareVec(t *testing.T) feature.Vector {
	t.Helper()
	return vectorFor(t, func() *normalize.NormalizedProfile {
		np, err := normalize.Normalize(testutil.Square(2))
		require.NoError(t, err)
		return np
	})
}

func rectVec(t *testing.T) feature.Vector {
	t.Helper()
	return vectorFor(t, func() *normalize.NormalizedProfile {
		np, err := normalize.Normalize(testutil.Rectangle(4, 1))
		require.NoError(t, err)
		return np
	})
}

func TestBetween(t *testing.T) {
	sq := squareVec(t)
	rect := rectVec(t)

	for _, metric := range []Metric{MetricWeightedL2, MetricCosine} {
		t.Run(metric.String(), func(t *testing.T) {
			self, err := Between(sq, sq, metric, DefaultWeights)
			require.NoError(t, err)
			assert.InDelta(t, 0.0, self, 1e-12)

			ab, err := Between(sq, rect, metric, DefaultWeights)
			require.NoError(t, err)
			ba, err := Between(rect, sq, metric, DefaultWeights)
			require.NoError(t, err)

			assert.Greater(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-12)
		})
	}
}

func TestBetweenLayoutMismatch(t *testing.T) {
	sq := squareVec(t)

	np, err := normalize.Normalize(testutil.Square(2))
	require.NoError(t, err)
	other, err := feature.Extract(np, feature.WithLayout(feature.Layout{Compactness: true}))
	require.NoError(t, err)

	_, err = Between(sq, other, MetricWeightedL2, DefaultWeights)
	require.Error(t, err)

	var lme *LayoutMismatchError
	assert.ErrorAs(t, err, &lme)
}

func TestWeightsExpand(t *testing.T) {
	w := Weights{Moments: 1, Curvature: 2, Corners: 3, AspectRatio: 4, Compactness: 5}
	layout := feature.Layout{Moments: true, CurvatureBins: 2, Compactness: true}

	expanded := w.Expand(layout)
	require.Len(t, expanded, layout.Len())
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 2, 2, 5}, expanded)
}

func TestZeroWeightRemovesFamily(t *testing.T) {
	sq := squareVec(t)
	rect := rectVec(t)

	zero := Weights{}
	d, err := Between(sq, rect, MetricWeightedL2, zero)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-12)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity(0))
	assert.InDelta(t, 0.5, Similarity(1), 1e-12)

	// Monotone decreasing, bounded in (0, 1].
	prev := 1.1
	for _, d := range []float64{0, 0.1, 1, 10, 1e6} {
		s := Similarity(d)
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
		assert.Less(t, s, prev)
		prev = s
	}
}

func TestProviderUnknownMetric(t *testing.T) {
	_, err := Provider(Metric(99))
	require.Error(t, err)
}

func TestCosineZeroVector(t *testing.T) {
	layout := feature.Layout{Compactness: true}
	a := feature.Vector{Layout: layout, Values: []float64{0}}
	b := feature.Vector{Layout: layout, Values: []float64{1}}

	d, err := Between(a, b, MetricCosine, DefaultWeights)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)

	d, err = Between(a, a, MetricCosine, DefaultWeights)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}
