package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extrusionkit/profilematch/geometry"
	"github.com/extrusionkit/profilematch/testutil"
)

// maxPointDistance returns the largest pairwise distance between
// corresponding points of two equally sized loops.
func maxPointDistance(t *testing.T, a, b geometry.Loop) float64 {
	t.Helper()
	require.Equal(t, len(a), len(b))
	var worst float64
	for i := range a {
		if d := a[i].Distance(b[i]); d > worst {
			worst = d
		}
	}
	return worst
}

func TestNormalizeCanonicalForm(t *testing.T) {
	np, err := Normalize(testutil.Square(2))
	require.NoError(t, err)

	assert.Len(t, np.Points, DefaultOptions.PointCount)
	assert.Equal(t, DefaultOptions.PointCount, np.PointCount)

	// Unit perimeter, counter-clockwise, centered.
	assert.InDelta(t, 1.0, np.Points.Perimeter(), 1e-9)
	assert.Greater(t, np.Points.SignedArea(), 0.0)
	c := np.Points.Centroid()
	assert.InDelta(t, 0.0, c.X, 1e-9)
	assert.InDelta(t, 0.0, c.Y, 1e-9)

	// Anchor vertex on the positive x axis.
	assert.InDelta(t, 0.0, np.Points[0].Y, 1e-9)
	assert.Greater(t, np.Points[0].X, 0.0)
}

func TestNormalizeInvariance(t *testing.T) {
	shapes := map[string]geometry.Profile{
		"square":    testutil.Square(2),
		"rectangle": testutil.Rectangle(4, 1),
		"lshape":    testutil.LShape(3),
		"polygon":   testutil.RegularPolygon(64, 1),
	}

	for name, p := range shapes {
		t.Run(name, func(t *testing.T) {
			base, err := Normalize(p)
			require.NoError(t, err)

			t.Run("Rotation", func(t *testing.T) {
				for _, theta := range []float64{0.1, math.Pi / 3, 2.8} {
					got, err := Normalize(p.Rotate(theta))
					require.NoError(t, err)
					assert.Less(t, maxPointDistance(t, base.Points, got.Points), 1e-9,
						"rotation by %v changed the canonical form", theta)
				}
			})

			t.Run("Scale", func(t *testing.T) {
				got, err := Normalize(p.Scale(37.5))
				require.NoError(t, err)
				assert.Less(t, maxPointDistance(t, base.Points, got.Points), 1e-9)
			})

			t.Run("Translation", func(t *testing.T) {
				got, err := Normalize(p.Translate(geometry.Point{X: -120, Y: 45}))
				require.NoError(t, err)
				assert.Less(t, maxPointDistance(t, base.Points, got.Points), 1e-9)
			})

			t.Run("Winding", func(t *testing.T) {
				flipped := geometry.Profile{Outer: p.Outer.Reversed(), Holes: p.Holes}
				got, err := Normalize(flipped)
				require.NoError(t, err)
				assert.Less(t, maxPointDistance(t, base.Points, got.Points), 1e-9)
			})

			t.Run("Idempotent", func(t *testing.T) {
				again, err := Normalize(geometry.Profile{Outer: base.Points, Holes: base.Holes})
				require.NoError(t, err)
				assert.Less(t, maxPointDistance(t, base.Points, again.Points), 1e-2)
			})
		})
	}
}

func TestNormalizeHoles(t *testing.T) {
	np, err := Normalize(testutil.HollowSquare(4, 1))
	require.NoError(t, err)

	require.Len(t, np.Holes, 1)
	// Canonical winding: holes are clockwise.
	assert.Less(t, np.Holes[0].SignedArea(), 0.0)
}

func TestNormalizeErrors(t *testing.T) {
	t.Run("TwoDistinctPoints", func(t *testing.T) {
		p := geometry.Profile{Outer: geometry.Loop{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}}
		_, err := Normalize(p)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTooFewPoints)

		var ge *GeometryError
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, -1, ge.Loop)
	})

	t.Run("Collinear", func(t *testing.T) {
		_, err := Normalize(testutil.Collinear())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrZeroArea)
	})

	t.Run("SelfIntersecting", func(t *testing.T) {
		_, err := Normalize(testutil.Bowtie())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSelfIntersecting)
	})

	t.Run("BadHole", func(t *testing.T) {
		p := testutil.Square(4)
		p.Holes = []geometry.Loop{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}}
		_, err := Normalize(p)
		require.Error(t, err)

		var ge *GeometryError
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, 0, ge.Loop)
		assert.ErrorIs(t, err, ErrZeroArea)
	})

	t.Run("TooSmallPointCount", func(t *testing.T) {
		_, err := Normalize(testutil.Square(1), WithPointCount(4))
		require.Error(t, err)
	})
}
