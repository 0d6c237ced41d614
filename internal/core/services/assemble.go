package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Separators inserted while concatenating sorted chunks.
const (
	// documentBoundary separates chunks from different source documents.
	documentBoundary = "\n\n---\n\n"

	// chunkGap separates adjacent chunks of the same source document.
	chunkGap = "\n\n"
)

// AssembleContext sorts, deduplicates and concatenates fetched chunks into
// a single boundary-annotated context string.
//
// Entries whose identifier fails to parse or whose source metadata is
// missing are dropped and counted in the bundle's Skipped diagnostic.
// Remaining chunks are sorted by (source, ordinal) so neighbours from the
// same document are contiguous and in reading order regardless of fetch
// ordering. The source list preserves first-appearance order after the
// sort, which makes it lexicographic and therefore stable.
//
// An empty input yields an empty bundle; substituting a user-facing
// not-found message is the pipeline's job, never the assembler's.
func AssembleContext(fetched map[string]domain.RetrievedChunk) domain.ContextBundle {
	type orderedChunk struct {
		id    domain.ChunkID
		chunk domain.RetrievedChunk
	}

	ordered := make([]orderedChunk, 0, len(fetched))
	skipped := 0

	for key, chunk := range fetched {
		id, err := domain.ParseChunkID(key)
		if err != nil {
			logger.Warn("Dropping fetched chunk with unparseable id %q", key)
			skipped++
			continue
		}
		if chunk.Source == "" {
			logger.Warn("Dropping fetched chunk %q: missing source metadata", key)
			skipped++
			continue
		}
		ordered = append(ordered, orderedChunk{id: id, chunk: chunk})
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].id.Source != ordered[j].id.Source {
			return ordered[i].id.Source < ordered[j].id.Source
		}
		return ordered[i].id.Ordinal < ordered[j].id.Ordinal
	})

	var text strings.Builder
	var sources []string
	seen := make(map[string]struct{})
	lastSource := ""

	for i, oc := range ordered {
		if i > 0 {
			if oc.chunk.Source != lastSource {
				text.WriteString(documentBoundary)
			} else {
				text.WriteString(chunkGap)
			}
		}
		text.WriteString(oc.chunk.Text)

		if _, ok := seen[oc.chunk.Source]; !ok {
			seen[oc.chunk.Source] = struct{}{}
			sources = append(sources, oc.chunk.Source)
		}
		lastSource = oc.chunk.Source
	}

	if skipped > 0 {
		logger.Info("Context assembly skipped %d malformed entries", skipped)
	}

	return domain.ContextBundle{
		Text:    text.String(),
		Sources: sources,
		Skipped: skipped,
	}
}
