// Package matcher ranks a reference corpus of die profiles against a query
// profile.
//
// The corpus is held as an immutable snapshot swapped atomically on every
// mutation, so concurrent rankings never observe a partially updated corpus
// and reads take no locks. Reference feature vectors are cached keyed by the
// profile's content fingerprint: re-adding an unchanged profile reuses the
// cached vector, while any coordinate change forces recomputation.
//
// Ranking is partitioned across workers, each collecting a bounded top-K
// heap, and the partial heaps are merged at the end; the total cost stays
// O(corpus x log K) regardless of corpus size.
package matcher

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/extrusionkit/profilematch/align"
	"github.com/extrusionkit/profilematch/distance"
	"github.com/extrusionkit/profilematch/feature"
	"github.com/extrusionkit/profilematch/geometry"
	"github.com/extrusionkit/profilematch/normalize"
	"github.com/extrusionkit/profilematch/queue"
	"github.com/extrusionkit/profilematch/resource"
)

var (
	// ErrEmptyCorpus is returned when ranking against an empty reference set.
	ErrEmptyCorpus = errors.New("reference corpus is empty")
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// Config holds the matcher's processing configuration. The same
// normalization and extraction options are applied to every reference and
// every query, which keeps all vectors layout-compatible.
type Config struct {
	NormalizeOptions []func(*normalize.Options)
	FeatureOptions   []func(*feature.Options)
	Metric           distance.Metric
	Weights          distance.Weights
	Logger           *slog.Logger
	Resources        *resource.Controller
}

// MatchResult pairs a reference identifier with its score against the query.
type MatchResult struct {
	// ID is the reference identifier.
	ID string
	// Distance is non-negative; 0 means identical. After an alignment pass
	// it is the alignment RMSD instead of the feature-vector distance.
	Distance float64
	// Similarity is Distance mapped onto (0, 1], 1 meaning identical.
	Similarity float64
	// Alignment carries the best-fit rotation metadata when the alignment
	// pass was requested and possible for this reference.
	Alignment *align.Result
}

// entry is one corpus slot. Entries whose profile failed normalization or
// extraction keep their failure and are skipped during ranking.
type entry struct {
	id          string
	fingerprint uint64
	vector      *feature.Vector
	norm        *normalize.NormalizedProfile
	tags        []string
	err         error
}

// corpusState is the immutable snapshot held in Matcher.state.
type corpusState struct {
	slots   []*entry
	byID    map[string]uint32
	tagBits map[string]*roaring.Bitmap
}

func (s *corpusState) clone() *corpusState {
	next := &corpusState{
		slots:   make([]*entry, len(s.slots)),
		byID:    make(map[string]uint32, len(s.byID)),
		tagBits: make(map[string]*roaring.Bitmap, len(s.tagBits)),
	}
	copy(next.slots, s.slots)
	for id, slot := range s.byID {
		next.byID[id] = slot
	}
	for tag, bits := range s.tagBits {
		next.tagBits[tag] = bits.Clone()
	}
	return next
}

// Matcher ranks reference profiles by similarity to a query profile.
// It is safe for concurrent use; mutations serialize on a write lock while
// rankings read lock-free snapshots.
type Matcher struct {
	state   atomic.Value // holds *corpusState
	writeMu sync.Mutex
	cfg     Config
}

// New creates a matcher with the given configuration.
func New(cfg Config) *Matcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	m := &Matcher{cfg: cfg}
	m.state.Store(&corpusState{
		byID:    make(map[string]uint32),
		tagBits: make(map[string]*roaring.Bitmap),
	})
	return m
}

func (m *Matcher) getState() *corpusState {
	return m.state.Load().(*corpusState)
}

// AddReference inserts or replaces a reference profile.
//
// The profile is normalized and feature-extracted eagerly. If processing
// fails, the failure is returned and the reference is kept as a skipped
// entry: it never aborts rankings, and remains visible through Stats.
// Re-adding an id with an unchanged profile reuses the cached feature
// vector.
func (m *Matcher) AddReference(id string, p geometry.Profile, tags ...string) error {
	fp := p.Fingerprint()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	old := m.getState()
	if slot, ok := old.byID[id]; ok {
		if prev := old.slots[slot]; prev != nil && prev.fingerprint == fp {
			// Unchanged content; only the tags may differ.
			next := old.clone()
			e := *prev
			e.tags = tags
			next.slots[slot] = &e
			retag(next, slot, prev.tags, tags)
			m.state.Store(next)
			return prev.err
		}
	}

	e := &entry{id: id, fingerprint: fp, tags: tags}
	norm, err := normalize.Normalize(p, m.cfg.NormalizeOptions...)
	if err == nil {
		var vec feature.Vector
		vec, err = feature.Extract(norm, m.cfg.FeatureOptions...)
		if err == nil {
			e.norm = norm
			e.vector = &vec
		}
	}
	if err != nil {
		e.err = err
		m.cfg.Logger.Warn("reference profile skipped",
			"id", id,
			"error", err,
		)
	}

	m.insertLocked(e)
	return err
}

// AddPrecomputed inserts a reference by its already-extracted feature
// vector, avoiding recomputation when vectors are produced elsewhere.
// Precomputed references cannot participate in the alignment pass.
func (m *Matcher) AddPrecomputed(id string, vec feature.Vector, tags ...string) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.insertLocked(&entry{id: id, vector: &vec, tags: tags})
}

// insertLocked stores e under the write lock, replacing any entry with the
// same id.
func (m *Matcher) insertLocked(e *entry) {
	old := m.getState()
	next := old.clone()

	if slot, ok := next.byID[e.id]; ok {
		retag(next, slot, next.slots[slot].tags, e.tags)
		next.slots[slot] = e
		m.state.Store(next)
		return
	}

	slot := uint32(len(next.slots))
	next.slots = append(next.slots, e)
	next.byID[e.id] = slot
	retag(next, slot, nil, e.tags)
	m.state.Store(next)
}

// RemoveReference deletes a reference. Removing an unknown id is a no-op.
func (m *Matcher) RemoveReference(id string) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	old := m.getState()
	slot, ok := old.byID[id]
	if !ok {
		return
	}
	next := old.clone()
	retag(next, slot, next.slots[slot].tags, nil)
	next.slots[slot] = nil
	delete(next.byID, id)
	m.state.Store(next)
}

// retag updates the tag posting lists for a slot.
func retag(s *corpusState, slot uint32, oldTags, newTags []string) {
	for _, t := range oldTags {
		if bits, ok := s.tagBits[t]; ok {
			bits.Remove(slot)
			if bits.IsEmpty() {
				delete(s.tagBits, t)
			}
		}
	}
	for _, t := range newTags {
		bits, ok := s.tagBits[t]
		if !ok {
			bits = roaring.New()
			s.tagBits[t] = bits
		}
		bits.Add(slot)
	}
}

// Len returns the number of references in the corpus, including skipped
// entries.
func (m *Matcher) Len() int {
	return len(m.getState().byID)
}

// Stats describes the current corpus.
type Stats struct {
	// References is the total number of corpus entries.
	References int
	// Skipped is the number of entries whose profile failed processing and
	// that are excluded from rankings.
	Skipped int
	// Tags is the number of distinct tags in use.
	Tags int
}

// Stats returns a snapshot of corpus statistics.
func (m *Matcher) Stats() Stats {
	s := m.getState()
	st := Stats{References: len(s.byID), Tags: len(s.tagBits)}
	for _, e := range s.slots {
		if e != nil && e.err != nil {
			st.Skipped++
		}
	}
	return st
}

// Rank processes the query profile and returns the top k references by
// ascending distance, ties broken by reference id.
//
// Rank fails with ErrEmptyCorpus before any query-side computation when the
// corpus holds no references, with ErrInvalidK for non-positive k, and
// propagates query-side normalization and extraction failures unchanged.
// Corpus entries that individually failed processing are skipped, never
// aborting the call.
func (m *Matcher) Rank(ctx context.Context, query geometry.Profile, k int, optFns ...func(*RankOptions)) ([]MatchResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	opts := defaultRankOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	s := m.getState()
	if len(s.byID) == 0 {
		return nil, ErrEmptyCorpus
	}

	queryNorm, err := normalize.Normalize(query, m.cfg.NormalizeOptions...)
	if err != nil {
		return nil, err
	}
	queryVec, err := feature.Extract(queryNorm, m.cfg.FeatureOptions...)
	if err != nil {
		return nil, err
	}

	slots := s.candidateSlots(opts.Tags)
	if len(slots) == 0 {
		return []MatchResult{}, nil
	}

	// Collect more than k candidates when an alignment re-rank follows, so
	// the expensive pass sees a wider pool.
	poolK := k
	if opts.Alignment {
		poolK = int(math.Ceil(float64(k) * opts.RefineFactor))
		if poolK < k {
			poolK = k
		}
	}

	items, err := m.scan(ctx, s, slots, queryVec, poolK, opts)
	if err != nil {
		return nil, err
	}

	results := make([]MatchResult, 0, len(items))
	for _, it := range items {
		results = append(results, MatchResult{
			ID:         it.Ref,
			Distance:   it.Distance,
			Similarity: distance.Similarity(it.Distance),
		})
	}

	if opts.Alignment {
		results, err = m.refine(ctx, s, queryNorm, results, opts)
		if err != nil {
			return nil, err
		}
	}

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// scan partitions the candidate slots across workers, each filling a bounded
// heap, and merges the partial heaps into the final top-K items.
func (m *Matcher) scan(ctx context.Context, s *corpusState, slots []uint32, queryVec feature.Vector, k int, opts RankOptions) ([]queue.Item, error) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(slots) {
		workers = len(slots)
	}

	heaps := make([]*queue.ResultHeap, workers)
	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(slots) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(slots) {
			hi = len(slots)
		}
		part := slots[lo:hi]
		h := queue.New(k)
		heaps[w] = h

		g.Go(func() error {
			for _, slot := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				e := s.slots[slot]
				if e == nil || e.err != nil {
					continue
				}
				d, err := distance.Between(queryVec, *e.vector, m.cfg.Metric, m.cfg.Weights)
				if err != nil {
					// Incompatible precomputed vector: corpus-side failure,
					// skip it like any other bad reference.
					m.cfg.Logger.Warn("reference vector skipped",
						"id", e.id,
						"error", err,
					)
					continue
				}
				h.PushBounded(queue.Item{Ref: e.id, Distance: d}, k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := queue.New(k)
	for _, h := range heaps {
		for _, it := range h.Drain() {
			merged.PushBounded(it, k)
		}
	}
	return merged.Drain(), nil
}

// refine re-scores candidates with the direct polygon alignment pass and
// re-sorts by the alignment residual. Candidates without a retained
// normalized profile (precomputed vectors) keep their vector distance.
func (m *Matcher) refine(ctx context.Context, s *corpusState, queryNorm *normalize.NormalizedProfile, results []MatchResult, opts RankOptions) ([]MatchResult, error) {
	alignOpts := []func(*align.Options){}
	if opts.Mirror {
		alignOpts = append(alignOpts, align.WithMirror())
	}
	if opts.OffsetStride > 1 {
		alignOpts = append(alignOpts, align.WithOffsetStride(opts.OffsetStride))
	}

	for i := range results {
		slot, ok := s.byID[results[i].ID]
		if !ok {
			continue
		}
		e := s.slots[slot]
		if e == nil || e.norm == nil {
			continue
		}

		if err := m.cfg.Resources.AcquireAlign(ctx); err != nil {
			return nil, err
		}
		res, err := align.Best(queryNorm, e.norm, alignOpts...)
		m.cfg.Resources.ReleaseAlign()
		if err != nil {
			m.cfg.Logger.Warn("alignment skipped",
				"id", e.id,
				"error", err,
			)
			continue
		}
		r := res
		results[i].Alignment = &r
		results[i].Distance = res.RMSD
		results[i].Similarity = distance.Similarity(res.RMSD)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

// candidateSlots returns the slot indexes to scan, pre-filtered by tags.
// With multiple tags a slot must carry all of them.
func (s *corpusState) candidateSlots(tags []string) []uint32 {
	if len(tags) == 0 {
		out := make([]uint32, 0, len(s.slots))
		for i, e := range s.slots {
			if e != nil {
				out = append(out, uint32(i))
			}
		}
		return out
	}

	var acc *roaring.Bitmap
	for _, t := range tags {
		bits, ok := s.tagBits[t]
		if !ok {
			return nil
		}
		if acc == nil {
			acc = bits.Clone()
		} else {
			acc.And(bits)
		}
	}
	if acc == nil {
		return nil
	}
	return acc.ToArray()
}
