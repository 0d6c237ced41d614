package services

import (
	"sort"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// ExpandWindow computes the full identifier set needed to cover each hit's
// local neighbourhood. For every parseable hit it adds the hit itself plus
// its neighbours at ordinal offsets [-window, window], clamped at ordinal 0.
// Hits whose identifier cannot be parsed are skipped with a warning; they
// never abort the batch. The store harmlessly ignores neighbours past the
// end of a document, so no upper bound is applied here.
//
// The result is deduplicated and sorted for deterministic fetch order.
func ExpandWindow(hits []string, window int) []string {
	if len(hits) == 0 {
		return nil
	}

	set := make(map[string]struct{})

	for _, hit := range hits {
		id, err := domain.ParseChunkID(hit)
		if err != nil {
			logger.Warn("Skipping context window for unparseable hit %q: %v", hit, err)
			continue
		}

		set[id.String()] = struct{}{}

		for offset := -window; offset <= window; offset++ {
			if offset == 0 {
				continue
			}
			neighbour := id.Neighbour(offset)
			if neighbour.Ordinal < 0 {
				continue
			}
			set[neighbour.String()] = struct{}{}
		}
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
