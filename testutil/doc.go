// Package testutil provides deterministic fixtures for tests: a seeded RNG
// and generators for the canonical profile shapes the test suite compares
// (squares, rectangles, regular polygons, L-sections, hollow sections).
package testutil
