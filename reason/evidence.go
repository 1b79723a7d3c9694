package reason

import (
	"strings"

	"lifebridge-backend/extract"
)

// DefaultMaxEvidenceHits caps how many chunks back a single plan item.
const DefaultMaxEvidenceHits = 3

func normalizeLower(s string) string {
	return strings.ToLower(extract.Normalize(s))
}

// FindChunks returns the indices of chunks containing any of the given
// keywords as a substring, after normalizing both sides (lowercase,
// whitespace collapsed). Indices come back in ascending scan order,
// capped at maxHits. Keywords that normalize to empty are ignored; no
// match yields an empty slice.
func FindChunks(chunks []string, keywords []string, maxHits int) []int {
	keys := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if nk := normalizeLower(k); nk != "" {
			keys = append(keys, nk)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	var hits []int
	for i, chunk := range chunks {
		if len(hits) >= maxHits {
			break
		}
		nc := normalizeLower(chunk)
		for _, k := range keys {
			if strings.Contains(nc, k) {
				hits = append(hits, i)
				break
			}
		}
	}
	return hits
}
