// Package distance scores the closeness of two feature vectors.
//
// All metrics return a non-negative value with 0 meaning identical, are
// symmetric in their arguments, and require both vectors to share the same
// extraction layout. Per-family weights let callers emphasize one descriptor
// family over another without changing the vector layout.
package distance
