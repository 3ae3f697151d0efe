package matcher

// RankOptions controls the execution of a single ranking call.
type RankOptions struct {
	// Tags restricts the scan to references carrying all listed tags.
	Tags []string

	// Alignment enables the direct polygon alignment re-rank of the top
	// candidates. Considerably more expensive than the vector scan.
	Alignment bool

	// RefineFactor is the multiplier for the candidate pool size handed to
	// the alignment pass. With k=5 and RefineFactor=2, the 10 best vector
	// matches are aligned and re-sorted.
	RefineFactor float64

	// Mirror lets the alignment pass also try the reflected query.
	Mirror bool

	// OffsetStride is passed through to the alignment sweep; values > 1
	// sample fewer start-point offsets.
	OffsetStride int
}

var defaultRankOptions = RankOptions{
	RefineFactor: 2.0,
	OffsetStride: 1,
}

// WithTags restricts the ranking to references carrying all given tags.
func WithTags(tags ...string) func(*RankOptions) {
	return func(o *RankOptions) { o.Tags = tags }
}

// WithAlignment enables the polygon alignment re-rank.
func WithAlignment() func(*RankOptions) {
	return func(o *RankOptions) { o.Alignment = true }
}

// WithRefineFactor sets the candidate pool multiplier for the alignment pass.
func WithRefineFactor(f float64) func(*RankOptions) {
	return func(o *RankOptions) {
		if f >= 1 {
			o.RefineFactor = f
		}
	}
}

// WithMirror lets the alignment pass match mirrored profiles.
func WithMirror() func(*RankOptions) {
	return func(o *RankOptions) { o.Mirror = true }
}

// WithOffsetStride sets the alignment sweep's offset sampling stride.
func WithOffsetStride(n int) func(*RankOptions) {
	return func(o *RankOptions) { o.OffsetStride = n }
}
