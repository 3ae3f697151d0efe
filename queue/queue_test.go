package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extrusionkit/profilematch/testutil"
)

func TestPushBounded(t *testing.T) {
	h := New(3)

	for _, it := range []Item{
		{Ref: "a", Distance: 5},
		{Ref: "b", Distance: 1},
		{Ref: "c", Distance: 3},
		{Ref: "d", Distance: 2}, // evicts a (5)
		{Ref: "e", Distance: 9}, // too far, dropped
	} {
		h.PushBounded(it, 3)
	}

	require.Equal(t, 3, h.Len())
	top, ok := h.Top()
	require.True(t, ok)
	assert.Equal(t, "c", top.Ref)

	got := h.Drain()
	assert.Equal(t, []Item{
		{Ref: "b", Distance: 1},
		{Ref: "d", Distance: 2},
		{Ref: "c", Distance: 3},
	}, got)
}

func TestPushBoundedTieBreak(t *testing.T) {
	h := New(2)
	h.PushBounded(Item{Ref: "z", Distance: 1}, 2)
	h.PushBounded(Item{Ref: "m", Distance: 1}, 2)
	// Same distance, lower id: replaces the worst tied entry.
	h.PushBounded(Item{Ref: "a", Distance: 1}, 2)

	got := h.Drain()
	assert.Equal(t, []Item{
		{Ref: "a", Distance: 1},
		{Ref: "m", Distance: 1},
	}, got)
}

func TestDrainOrderRandomized(t *testing.T) {
	rng := testutil.NewRNG(7)
	h := New(16)
	for i := 0; i < 100; i++ {
		h.PushBounded(Item{Ref: string(rune('a' + rng.Intn(26))), Distance: rng.Float64()}, 16)
	}

	got := h.Drain()
	require.Len(t, got, 16)
	for i := 1; i < len(got); i++ {
		if got[i-1].Distance == got[i].Distance {
			assert.LessOrEqual(t, got[i-1].Ref, got[i].Ref)
			continue
		}
		assert.Less(t, got[i-1].Distance, got[i].Distance)
	}
}

func TestTopEmpty(t *testing.T) {
	h := New(4)
	_, ok := h.Top()
	assert.False(t, ok)
	assert.Empty(t, h.Drain())
}
