// Package profilematch provides a geometric profile matching engine for
// extrusion-die cross-sections.
//
// Given a query profile (a closed 2D outline with optional holes) and a
// corpus of reference profiles, the engine ranks the corpus by shape
// similarity, invariant to translation, scale, rotation and optionally
// mirroring.
//
// # Quick Start
//
//	eng, _ := profilematch.New()
//	eng.AddReference(ctx, "D-1042", refProfile, "alloy:6063")
//	eng.AddReference(ctx, "D-2205", otherProfile, "alloy:6060")
//
//	results, _ := eng.Rank(ctx, queryProfile, 5)
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Distance, r.Similarity)
//	}
//
// # Pipeline
//
// Profiles flow through three pure stages before ranking:
//
//   - normalize: canonical form (centered, unit perimeter, fixed winding,
//     uniform resampling with corner preservation)
//   - feature: fixed-layout descriptor vector (moment invariants, curvature
//     histogram, corner count, aspect ratio, compactness)
//   - distance: family-weighted metric over descriptor vectors
//
// The matcher orchestrates these stages over an immutable corpus snapshot,
// caching reference vectors by content fingerprint and scanning partitions
// in parallel with bounded top-K merging.
//
// # Alignment Pass
//
// For rankings that must distinguish shapes beyond what the descriptors
// separate, an opt-in alignment pass re-scores the top candidates by direct
// polygon alignment (cyclic offset sweep with Kabsch rotation fitting) and
// re-sorts by the residual:
//
//	results, _ := eng.Rank(ctx, query, 5, matcher.WithAlignment())
//
// The pass is quadratic in the resample point count; a resource.Controller
// can bound its concurrency and rate.
//
// # Failure Modes
//
// Degenerate query geometry, insufficient samples for a descriptor,
// incomparable vector layouts and empty corpora each fail with a distinct
// error (ErrGeometry, ErrFeature, ErrLayoutMismatch, ErrEmptyCorpus). A
// query-side failure aborts the whole ranking; a corpus-side failure only
// skips the affected reference, with a logged warning.
package profilematch
