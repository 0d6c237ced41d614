package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter()
	assert.Nil(t, s.Split(""))
}

func TestSplitShortText(t *testing.T) {
	s := NewSplitter()
	chunks := s.Split("short")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}

func TestSplitWithOverlap(t *testing.T) {
	s := NewSplitter(WithChunkSize(10), WithOverlap(3))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := s.Split(text)
	require.Len(t, chunks, 4)

	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "hijklmnopq", chunks[1], "each chunk starts 7 characters after the previous")
	assert.Equal(t, "opqrstuvwx", chunks[2])
	assert.Equal(t, "vwxyz", chunks[3])

	// Consecutive chunks share the overlap region.
	assert.Equal(t, chunks[0][7:], chunks[1][:3])
}

func TestSplitCoversWholeText(t *testing.T) {
	s := NewSplitter(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("0123456789", 37)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestSplitterClampsExcessiveOverlap(t *testing.T) {
	s := NewSplitter(WithChunkSize(100), WithOverlap(100))
	assert.Equal(t, 25, s.overlap)
}

func TestSplitterIgnoresInvalidOptions(t *testing.T) {
	s := NewSplitter(WithChunkSize(0), WithOverlap(-1))
	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, s.overlap)
}
