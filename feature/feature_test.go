package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extrusionkit/profilematch/geometry"
	"github.com/extrusionkit/profilematch/normalize"
	"github.com/extrusionkit/profilematch/testutil"
)

func TestLayout(t *testing.T) {
	assert.Equal(t, 7+16+3, DefaultLayout.Len())

	elems := DefaultLayout.Elements()
	require.Len(t, elems, DefaultLayout.Len())
	assert.Equal(t, FamilyMoments, elems[0])
	assert.Equal(t, FamilyCurvature, elems[7])
	assert.Equal(t, FamilyCorners, elems[23])
	assert.Equal(t, FamilyAspectRatio, elems[24])
	assert.Equal(t, FamilyCompactness, elems[25])

	sparse := Layout{Compactness: true}
	assert.Equal(t, 1, sparse.Len())
	assert.Equal(t, []Family{FamilyCompactness}, sparse.Elements())
}

func TestExtractSquare(t *testing.T) {
	np, err := normalize.Normalize(testutil.Square(2))
	require.NoError(t, err)

	vec, err := Extract(np)
	require.NoError(t, err)
	require.Len(t, vec.Values, DefaultLayout.Len())
	assert.Equal(t, DefaultLayout, vec.Layout)

	elems := vec.Layout.Elements()
	byFamily := func(f Family) []float64 {
		var out []float64
		for i, e := range elems {
			if e == f {
				out = append(out, vec.Values[i])
			}
		}
		return out
	}

	corners := byFamily(FamilyCorners)
	require.Len(t, corners, 1)
	assert.Equal(t, 4.0, corners[0])

	aspect := byFamily(FamilyAspectRatio)
	require.Len(t, aspect, 1)
	assert.InDelta(t, 1.0, aspect[0], 1e-6)

	compact := byFamily(FamilyCompactness)
	require.Len(t, compact, 1)
	assert.InDelta(t, math.Pi/4, compact[0], 1e-3)

	// Curvature histogram is a probability distribution.
	hist := byFamily(FamilyCurvature)
	var sum float64
	for _, h := range hist {
		require.GreaterOrEqual(t, h, 0.0)
		sum += h
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestExtractCircle(t *testing.T) {
	np, err := normalize.Normalize(testutil.RegularPolygon(64, 1))
	require.NoError(t, err)

	vec, err := Extract(np)
	require.NoError(t, err)

	elems := vec.Layout.Elements()
	for i, e := range elems {
		switch e {
		case FamilyCorners:
			assert.Equal(t, 0.0, vec.Values[i], "a circle has no corners")
		case FamilyCompactness:
			assert.InDelta(t, 1.0, vec.Values[i], 1e-2, "a circle is maximally compact")
		}
	}
}

func TestExtractElongation(t *testing.T) {
	sq, err := normalize.Normalize(testutil.Square(2))
	require.NoError(t, err)
	rect, err := normalize.Normalize(testutil.Rectangle(4, 1))
	require.NoError(t, err)

	vecSq, err := Extract(sq)
	require.NoError(t, err)
	vecRect, err := Extract(rect)
	require.NoError(t, err)

	elems := DefaultLayout.Elements()
	for i, e := range elems {
		if e == FamilyAspectRatio {
			assert.Greater(t, vecRect.Values[i], vecSq.Values[i]+0.3)
		}
	}
}

func TestExtractRotationInvariance(t *testing.T) {
	p := testutil.LShape(3)

	base, err := normalize.Normalize(p)
	require.NoError(t, err)
	vecBase, err := Extract(base)
	require.NoError(t, err)

	rotated, err := normalize.Normalize(p.Rotate(1.1).Scale(3).Translate(geometry.Point{X: 7, Y: -2}))
	require.NoError(t, err)
	vecRot, err := Extract(rotated)
	require.NoError(t, err)

	require.Equal(t, vecBase.Layout, vecRot.Layout)
	for i := range vecBase.Values {
		assert.InDelta(t, vecBase.Values[i], vecRot.Values[i], 1e-6,
			"element %d (%s)", i, vecBase.Layout.Elements()[i])
	}
}

func TestExtractCustomLayout(t *testing.T) {
	np, err := normalize.Normalize(testutil.Square(2))
	require.NoError(t, err)

	layout := Layout{Moments: true, Compactness: true}
	vec, err := Extract(np, WithLayout(layout))
	require.NoError(t, err)
	assert.Len(t, vec.Values, 8)
	assert.Equal(t, layout, vec.Layout)
}

func TestExtractTooFewSamples(t *testing.T) {
	np, err := normalize.Normalize(testutil.Square(2), normalize.WithPointCount(8))
	require.NoError(t, err)

	_, err = Extract(np, WithCurvatureWindow(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooFewSamples)

	var fe *FeatureError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 9, fe.Need)
	assert.Equal(t, 8, fe.Got)
}
