package index

import (
	"sync/atomic"

	"github.com/standardbeagle/snr/internal/types"
)

// CanonicalIndex is an immutable mapping from canonical-name strings to
// the set of data sources that carry them. Lookups are total: unknown
// names return the empty set. The index is built once and never mutated;
// replacing data means building a fresh index and swapping it through a
// Handle.
type CanonicalIndex struct {
	entries map[string]types.SourceSet
	sources types.SourceSet
}

// New builds an index over the given entries. The map is owned by the
// index afterwards; callers must not mutate it.
func New(entries map[string]types.SourceSet) *CanonicalIndex {
	if entries == nil {
		entries = map[string]types.SourceSet{}
	}

	all := make([]types.SourceID, 0, 16)
	for _, set := range entries {
		all = append(all, set.IDs()...)
	}

	return &CanonicalIndex{
		entries: entries,
		sources: types.NewSourceSet(all...),
	}
}

// Lookup returns the data sources carrying the given canonical name.
// Total: missing names return the empty set.
func (ix *CanonicalIndex) Lookup(name string) types.SourceSet {
	return ix.entries[name]
}

// Intersects reports whether the name is carried by any source accepted
// by the filter. An empty filter accepts any source.
func (ix *CanonicalIndex) Intersects(name string, filter types.SourceSet) bool {
	sources := ix.entries[name]
	if sources.IsEmpty() {
		return false
	}
	if filter.IsEmpty() {
		return true
	}
	return sources.Intersects(filter)
}

// Len returns the number of distinct canonical names.
func (ix *CanonicalIndex) Len() int {
	return len(ix.entries)
}

// Sources returns the union of all data sources in the index.
func (ix *CanonicalIndex) Sources() types.SourceSet {
	return ix.sources
}

// Walk visits every entry until the callback returns false. Iteration
// order is unspecified.
func (ix *CanonicalIndex) Walk(visit func(name string, sources types.SourceSet) bool) {
	for name, set := range ix.entries {
		if !visit(name, set) {
			return
		}
	}
}

// Handle publishes the current index snapshot. Resolvers read a snapshot
// once per call, so a concurrent swap never changes data mid-resolution.
type Handle struct {
	current atomic.Pointer[CanonicalIndex]
}

// NewHandle creates a handle holding the given index.
func NewHandle(ix *CanonicalIndex) *Handle {
	h := &Handle{}
	h.current.Store(ix)
	return h
}

// Current returns the live index snapshot.
func (h *Handle) Current() *CanonicalIndex {
	return h.current.Load()
}

// Swap atomically replaces the live index.
func (h *Handle) Swap(ix *CanonicalIndex) {
	h.current.Store(ix)
}
