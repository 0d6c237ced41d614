package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandWindow_Symmetry(t *testing.T) {
	got := ExpandWindow([]string{"S:5"}, 2)
	assert.ElementsMatch(t, []string{"S:3", "S:4", "S:5", "S:6", "S:7"}, got)
}

func TestExpandWindow_FloorClamp(t *testing.T) {
	got := ExpandWindow([]string{"S:1"}, 2)
	// S:-1 and S:-2 must be excluded; the upper side is not clamped.
	assert.ElementsMatch(t, []string{"S:0", "S:1", "S:2", "S:3"}, got)
}

func TestExpandWindow_ZeroWindow(t *testing.T) {
	got := ExpandWindow([]string{"S:2", "S:2", "T:0"}, 0)
	assert.ElementsMatch(t, []string{"S:2", "T:0"}, got)
}

func TestExpandWindow_EmptyInput(t *testing.T) {
	assert.Empty(t, ExpandWindow(nil, 3))
	assert.Empty(t, ExpandWindow([]string{}, 3))
}

func TestExpandWindow_OverlappingHits(t *testing.T) {
	// Overlapping windows must not duplicate identifiers.
	got := ExpandWindow([]string{"S:2", "S:3"}, 1)
	assert.ElementsMatch(t, []string{"S:1", "S:2", "S:3", "S:4"}, got)
}

func TestExpandWindow_SkipsMalformedHit(t *testing.T) {
	// A bad hit drops only its own contribution, not the batch.
	got := ExpandWindow([]string{"not-an-id", "S:1"}, 1)
	assert.ElementsMatch(t, []string{"S:0", "S:1", "S:2"}, got)
}

func TestExpandWindow_URLSourcesKeepColons(t *testing.T) {
	got := ExpandWindow([]string{"https://docs.example.com/page:3"}, 1)
	assert.ElementsMatch(t, []string{
		"https://docs.example.com/page:2",
		"https://docs.example.com/page:3",
		"https://docs.example.com/page:4",
	}, got)
}

func TestExpandWindow_Deterministic(t *testing.T) {
	a := ExpandWindow([]string{"B:1", "A:1"}, 1)
	b := ExpandWindow([]string{"A:1", "B:1"}, 1)
	assert.Equal(t, a, b, "expansion order must not depend on input order")
}
