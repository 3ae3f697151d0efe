// Package normalize converts raw profiles into a canonical form that later
// pipeline stages can compare directly.
//
// # Canonical Form
//
// A NormalizedProfile is derived from a geometry.Profile by:
//
//   - centering on the area centroid (translation invariance)
//   - scaling to unit outer perimeter (scale invariance)
//   - enforcing counter-clockwise outer winding and clockwise holes
//   - rotating the anchor vertex (the one farthest from the centroid) onto
//     the positive x axis (rotation canonicalization)
//   - resampling the outer loop to a fixed point count at uniform arc-length
//     spacing, starting at the anchor, with sharp corners preserved
//
// Normalization is a pure function: the input profile is never mutated, and
// the same input always produces the same output. Re-normalizing an already
// normalized profile reproduces it up to floating-point tolerance.
//
// # Failure Modes
//
// Degenerate inputs fail with a *GeometryError wrapping one of the sentinel
// reasons ErrTooFewPoints, ErrZeroArea or ErrSelfIntersecting. Use errors.Is
// to test for a specific reason.
package normalize
