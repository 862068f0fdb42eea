package resolver

import (
	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/types"
)

// classification partitions one batch of splits for a resolution level.
type classification struct {
	// genusOnly holds splits shortened down to a single word (or to
	// nothing). They are reported as degraded genus matches, never
	// probed fuzzily.
	genusOnly []NameSplit
	// exactHits intersect the index under the filter.
	exactHits []NameSplit
	// fuzzyQueue missed exactly and go to the fuzzy index.
	fuzzyQueue []NameSplit
}

// classify partitions splits in one pass. A shortened split of size <= 1
// routes to genusOnly even when it would have hit exactly; original
// uninomials and multinomials are eligible for exact and fuzzy lookup.
func classify(batch []NameSplit, ix *index.CanonicalIndex, filter types.SourceSet) classification {
	var c classification
	for _, split := range batch {
		size := split.Size()
		if size == 0 || (size == 1 && !split.IsOriginal) {
			c.genusOnly = append(c.genusOnly, split)
			continue
		}
		if ix.Intersects(split.Partial, filter) {
			c.exactHits = append(c.exactHits, split)
		} else {
			c.fuzzyQueue = append(c.fuzzyQueue, split)
		}
	}
	return c
}
