package profilematch

import (
	"context"
	"time"

	"github.com/extrusionkit/profilematch/distance"
	"github.com/extrusionkit/profilematch/feature"
	"github.com/extrusionkit/profilematch/geometry"
	"github.com/extrusionkit/profilematch/matcher"
	"github.com/extrusionkit/profilematch/normalize"
)

// Engine is the top-level entry point tying the pipeline together: it owns a
// matcher over the reference corpus and exposes the pure pipeline stages for
// callers that consume intermediate results (e.g. feature vectors feeding a
// downstream prediction model).
//
// Engine is safe for concurrent use.
type Engine struct {
	matcher *matcher.Matcher
	opts    options
}

// New creates an engine. All profiles added to or ranked by the engine are
// processed under the same normalization and extraction configuration.
func New(optFns ...Option) (*Engine, error) {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		metric:           distance.MetricWeightedL2,
		weights:          distance.DefaultWeights,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := matcher.New(matcher.Config{
		NormalizeOptions: opts.normalizeOptions,
		FeatureOptions:   opts.featureOptions,
		Metric:           opts.metric,
		Weights:          opts.weights,
		Logger:           opts.logger.Logger,
		Resources:        opts.resources,
	})

	return &Engine{matcher: m, opts: opts}, nil
}

// AddReference inserts or replaces a reference profile in the corpus.
// Tags (e.g. "alloy:6063") can later restrict rankings via
// matcher.WithTags.
//
// A profile that fails processing is still stored as a skipped entry that
// never aborts rankings; the processing failure is returned so the caller
// can surface it.
func (e *Engine) AddReference(ctx context.Context, id string, p geometry.Profile, tags ...string) error {
	start := time.Now()
	err := e.matcher.AddReference(id, p, tags...)
	e.opts.metricsCollector.RecordAddReference(time.Since(start), err != nil)
	e.opts.logger.LogAddReference(ctx, id, tags)
	return translateError(err)
}

// AddPrecomputed inserts a reference by an already-extracted feature vector.
func (e *Engine) AddPrecomputed(id string, vec feature.Vector, tags ...string) {
	e.matcher.AddPrecomputed(id, vec, tags...)
}

// RemoveReference deletes a reference from the corpus.
func (e *Engine) RemoveReference(id string) {
	e.matcher.RemoveReference(id)
}

// Rank returns the top k references by ascending distance to the query,
// ties broken by reference id. See matcher.Rank for the failure contract.
func (e *Engine) Rank(ctx context.Context, query geometry.Profile, k int, optFns ...func(*matcher.RankOptions)) ([]matcher.MatchResult, error) {
	start := time.Now()
	results, err := e.matcher.Rank(ctx, query, k, optFns...)
	elapsed := time.Since(start)
	e.opts.metricsCollector.RecordRank(k, elapsed, err)
	e.opts.logger.LogRank(ctx, k, len(results), elapsed, err)
	if err != nil {
		return nil, translateError(err)
	}
	return results, nil
}

// Normalize converts a profile into its canonical form under the engine's
// configuration.
func (e *Engine) Normalize(p geometry.Profile) (*normalize.NormalizedProfile, error) {
	np, err := normalize.Normalize(p, e.opts.normalizeOptions...)
	if err != nil {
		return nil, translateError(err)
	}
	return np, nil
}

// Extract computes a profile's feature vector under the engine's
// configuration. The vector layout matches every other vector produced by
// this engine, so it can be stored externally and fed back via
// AddPrecomputed, or consumed by downstream models.
func (e *Engine) Extract(p geometry.Profile) (feature.Vector, error) {
	start := time.Now()
	np, err := normalize.Normalize(p, e.opts.normalizeOptions...)
	if err != nil {
		e.opts.metricsCollector.RecordExtract(time.Since(start), err)
		return feature.Vector{}, translateError(err)
	}
	vec, err := feature.Extract(np, e.opts.featureOptions...)
	e.opts.metricsCollector.RecordExtract(time.Since(start), err)
	if err != nil {
		return feature.Vector{}, translateError(err)
	}
	return vec, nil
}

// Stats returns a snapshot of corpus statistics.
func (e *Engine) Stats() matcher.Stats {
	return e.matcher.Stats()
}
