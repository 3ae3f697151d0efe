package feature

import (
	"math"

	"github.com/extrusionkit/profilematch/geometry"
	"github.com/extrusionkit/profilematch/normalize"
)

// polyMoments holds raw geometric moments of a polygon region up to order 3,
// computed exactly over the enclosed area via Green's theorem. Loops summed
// with clockwise winding contribute negatively, so holes subtract themselves
// from the region.
type polyMoments struct {
	m00, m10, m01      float64
	m20, m11, m02      float64
	m30, m21, m12, m03 float64
}

func (m *polyMoments) accumulate(l geometry.Loop) {
	n := len(l)
	for i := 0; i < n; i++ {
		x0, y0 := l[i].X, l[i].Y
		x1, y1 := l[(i+1)%n].X, l[(i+1)%n].Y
		a := x0*y1 - x1*y0

		m.m00 += a
		m.m10 += a * (x0 + x1)
		m.m01 += a * (y0 + y1)
		m.m20 += a * (x0*x0 + x0*x1 + x1*x1)
		m.m02 += a * (y0*y0 + y0*y1 + y1*y1)
		m.m11 += a * (2*x0*y0 + x0*y1 + x1*y0 + 2*x1*y1)
		m.m30 += a * (x0*x0*x0 + x0*x0*x1 + x0*x1*x1 + x1*x1*x1)
		m.m03 += a * (y0*y0*y0 + y0*y0*y1 + y0*y1*y1 + y1*y1*y1)
		m.m21 += a * (3*x0*x0*y0 + 2*x0*x1*y0 + x1*x1*y0 + x0*x0*y1 + 2*x0*x1*y1 + 3*x1*x1*y1)
		m.m12 += a * (3*y0*y0*x0 + 2*y0*y1*x0 + y1*y1*x0 + y0*y0*x1 + 2*y0*y1*x1 + 3*y1*y1*x1)
	}
}

func (m *polyMoments) finish() {
	m.m00 /= 2
	m.m10 /= 6
	m.m01 /= 6
	m.m20 /= 12
	m.m02 /= 12
	m.m11 /= 24
	m.m30 /= 20
	m.m03 /= 20
	m.m21 /= 60
	m.m12 /= 60
}

// huInvariants computes the seven Hu moment invariants of the profile region
// (outer loop minus holes), log-compressed so that invariants of very
// different magnitude remain comparable under a Euclidean metric.
func huInvariants(np *normalize.NormalizedProfile) []float64 {
	var m polyMoments
	m.accumulate(np.Points)
	for _, h := range np.Holes {
		m.accumulate(h)
	}
	m.finish()

	// Central moments about the region centroid. The normalized profile is
	// already near-centered, but holes shift the region centroid slightly.
	xb := m.m10 / m.m00
	yb := m.m01 / m.m00

	mu20 := m.m20 - xb*m.m10
	mu02 := m.m02 - yb*m.m01
	mu11 := m.m11 - xb*m.m01
	mu30 := m.m30 - 3*xb*m.m20 + 2*xb*xb*m.m10
	mu03 := m.m03 - 3*yb*m.m02 + 2*yb*yb*m.m01
	mu21 := m.m21 - 2*xb*m.m11 - yb*m.m20 + 2*xb*xb*m.m01
	mu12 := m.m12 - 2*yb*m.m11 - xb*m.m02 + 2*yb*yb*m.m10

	// Scale-normalized central moments.
	mu00 := math.Abs(m.m00)
	n2 := math.Pow(mu00, 2)
	n25 := math.Pow(mu00, 2.5)
	eta20 := mu20 / n2
	eta02 := mu02 / n2
	eta11 := mu11 / n2
	eta30 := mu30 / n25
	eta03 := mu03 / n25
	eta21 := mu21 / n25
	eta12 := mu12 / n25

	h1 := eta20 + eta02
	h2 := (eta20-eta02)*(eta20-eta02) + 4*eta11*eta11
	h3 := (eta30-3*eta12)*(eta30-3*eta12) + (3*eta21-eta03)*(3*eta21-eta03)
	h4 := (eta30+eta12)*(eta30+eta12) + (eta21+eta03)*(eta21+eta03)
	h5 := (eta30-3*eta12)*(eta30+eta12)*((eta30+eta12)*(eta30+eta12)-3*(eta21+eta03)*(eta21+eta03)) +
		(3*eta21-eta03)*(eta21+eta03)*(3*(eta30+eta12)*(eta30+eta12)-(eta21+eta03)*(eta21+eta03))
	h6 := (eta20-eta02)*((eta30+eta12)*(eta30+eta12)-(eta21+eta03)*(eta21+eta03)) +
		4*eta11*(eta30+eta12)*(eta21+eta03)
	h7 := (3*eta21-eta03)*(eta30+eta12)*((eta30+eta12)*(eta30+eta12)-3*(eta21+eta03)*(eta21+eta03)) -
		(eta30-3*eta12)*(eta21+eta03)*(3*(eta30+eta12)*(eta30+eta12)-(eta21+eta03)*(eta21+eta03))

	return []float64{
		logCompress(h1),
		logCompress(h2),
		logCompress(h3),
		logCompress(h4),
		logCompress(h5),
		logCompress(h6),
		logCompress(h7),
	}
}

// logCompress maps an invariant onto a symmetric log scale. Higher-order Hu
// invariants span many orders of magnitude; a raw Euclidean metric over them
// would be dominated entirely by the first invariant.
func logCompress(v float64) float64 {
	return math.Copysign(math.Log10(1+math.Abs(v)*1e6), v)
}
