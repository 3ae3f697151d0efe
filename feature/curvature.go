package feature

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/extrusionkit/profilematch/geometry"
)

// turningAngles computes the discrete turning angle at every sample of a
// closed, uniformly resampled loop. The angle at sample i is measured between
// the chords (i-w -> i) and (i -> i+w); positive angles turn left.
func turningAngles(points geometry.Loop, window int) []float64 {
	n := len(points)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		prev := points[(i-window+n)%n]
		next := points[(i+window)%n]
		in := points[i].Sub(prev)
		outv := next.Sub(points[i])
		out[i] = math.Atan2(in.Cross(outv), in.Dot(outv))
	}
	return out
}

// curvatureHistogram bins turning angles over [-pi, pi] and L1-normalizes
// the counts, making the histogram independent of the sample count.
func curvatureHistogram(turns []float64, bins int) []float64 {
	hist := make([]float64, bins)
	width := 2 * math.Pi / float64(bins)
	for _, t := range turns {
		b := int((t + math.Pi) / width)
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		hist[b]++
	}
	if sum := floats.Sum(hist); sum > 0 {
		floats.Scale(1/sum, hist)
	}
	return hist
}

// countCorners counts samples whose turning-angle magnitude exceeds the
// corner threshold, merging detections closer than the minimum arc-length
// separation into a single corner.
func countCorners(turns []float64, opts Options) int {
	n := len(turns)
	if n == 0 {
		return 0
	}
	// Uniform arc-length spacing means separation in samples is just a
	// fraction of the sample count.
	minSep := int(opts.MinCornerSeparation * float64(n))
	if minSep < 1 {
		minSep = 1
	}

	count := 0
	firstHit := -1
	lastHit := -(n + 1)
	for i := 0; i < n; i++ {
		if math.Abs(turns[i]) < opts.CornerAngle {
			continue
		}
		if i-lastHit >= minSep {
			count++
			if firstHit < 0 {
				firstHit = i
			}
		}
		lastHit = i
	}
	// The loop is cyclic: if the first and last detections wrap around into
	// the same corner, they were counted twice.
	if count > 1 && firstHit >= 0 && (n-lastHit)+firstHit < minSep {
		count--
	}
	return count
}

// aspectRatio returns the square root of the ratio of the principal second
// moments of the boundary samples. It is 1 for isotropic shapes and grows
// with elongation, independent of orientation.
func aspectRatio(points geometry.Loop) float64 {
	n := float64(len(points))
	var mx, my float64
	for _, p := range points {
		mx += p.X
		my += p.Y
	}
	mx /= n
	my /= n

	var sxx, sxy, syy float64
	for _, p := range points {
		dx := p.X - mx
		dy := p.Y - my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	sxx /= n
	sxy /= n
	syy /= n

	var eig mat.EigenSym
	cov := mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy})
	if !eig.Factorize(cov, false) {
		return 1
	}
	vals := eig.Values(nil)
	lo, hi := vals[0], vals[1]
	if lo < 1e-12 {
		lo = 1e-12
	}
	return math.Sqrt(hi / lo)
}
