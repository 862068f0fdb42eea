package fuzzy

import (
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"

	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/types"
)

// Config controls candidate acceptance and result shaping.
type Config struct {
	// MaxEditDistance is the stem-distance budget for accepting a candidate.
	MaxEditDistance int
	// MinStemLength leaves shorter epithets unstemmed.
	MinStemLength int
	// MaxCandidates caps the result list per query.
	MaxCandidates int
	// CacheSize bounds the per-matcher query cache.
	CacheSize int
}

// DefaultConfig returns the matcher defaults.
func DefaultConfig() Config {
	return Config{
		MaxEditDistance: 2,
		MinStemLength:   4,
		MaxCandidates:   20,
		CacheSize:       1024,
	}
}

// entry is one indexed term prepared for distance checks.
type entry struct {
	term    string
	stem    string
	sources types.SourceSet
}

// Matcher is an in-process approximate index over canonical names.
// Uninomials only match uninomials and multinomials only match terms of
// the same word count; within a bucket a length prefilter skips terms
// that cannot be within the edit budget.
type Matcher struct {
	cfg     Config
	buckets map[int][]entry

	mu    sync.Mutex
	cache map[uint64][]types.Candidate
}

// NewMatcher prepares the matcher from an index snapshot. Stems are
// precomputed once; the matcher is safe for concurrent queries.
func NewMatcher(ix *index.CanonicalIndex, cfg Config) *Matcher {
	if cfg.MaxEditDistance <= 0 {
		cfg.MaxEditDistance = 2
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 20
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}

	m := &Matcher{
		cfg:     cfg,
		buckets: make(map[int][]entry),
		cache:   make(map[uint64][]types.Candidate),
	}

	ix.Walk(func(term string, sources types.SourceSet) bool {
		words := strings.Count(term, " ") + 1
		m.buckets[words] = append(m.buckets[words], entry{
			term:    term,
			stem:    StemCanonical(term, cfg.MinStemLength),
			sources: sources,
		})
		return true
	})

	// Deterministic candidate generation order.
	for _, bucket := range m.buckets {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].term < bucket[j].term })
	}
	return m
}

// StemCanonical stems the epithets of a canonical name, leaving the
// genus verbatim. Epithets shorter than minLength pass through; Latin
// gender endings are what the stemming is meant to absorb.
func StemCanonical(name string, minLength int) string {
	words := strings.Split(name, " ")
	for i := 1; i < len(words); i++ {
		if minLength > 0 && len(words[i]) < minLength {
			continue
		}
		words[i] = porter2.Stem(words[i])
	}
	return strings.Join(words, " ")
}

// FindMatches returns approximate matches for a canonical term, ordered
// by (stem distance, verbatim distance, term). Candidates whose sources
// do not survive a non-empty filter are excluded. The error return
// satisfies the external-index contract; this in-process matcher never
// fails.
func (m *Matcher) FindMatches(term string, filter types.SourceSet) ([]types.Candidate, error) {
	if term == "" {
		return nil, nil
	}

	key := m.cacheKey(term, filter)
	if cached, ok := m.cacheGet(key); ok {
		return cached, nil
	}

	words := strings.Count(term, " ") + 1
	budget := m.cfg.MaxEditDistance
	queryStem := StemCanonical(term, m.cfg.MinStemLength)

	var found []types.Candidate
	for _, e := range m.buckets[words] {
		if lengthGap(term, e.term) > budget {
			continue
		}
		if !filter.IsEmpty() && !e.sources.Intersects(filter) {
			continue
		}

		stemDist := edlib.LevenshteinDistance(queryStem, e.stem)
		if stemDist > budget {
			continue
		}
		verbatimDist := edlib.LevenshteinDistance(term, e.term)

		found = append(found, types.Candidate{
			Term:                 e.term,
			StemEditDistance:     stemDist,
			VerbatimEditDistance: verbatimDist,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.StemEditDistance != b.StemEditDistance {
			return a.StemEditDistance < b.StemEditDistance
		}
		if a.VerbatimEditDistance != b.VerbatimEditDistance {
			return a.VerbatimEditDistance < b.VerbatimEditDistance
		}
		return a.Term < b.Term
	})
	if len(found) > m.cfg.MaxCandidates {
		found = found[:m.cfg.MaxCandidates]
	}

	m.cachePut(key, found)
	return found, nil
}

func lengthGap(a, b string) int {
	if len(a) > len(b) {
		return len(a) - len(b)
	}
	return len(b) - len(a)
}

func (m *Matcher) cacheKey(term string, filter types.SourceSet) uint64 {
	h := xxhash.New()
	h.WriteString(term)
	for _, id := range filter.IDs() {
		h.Write([]byte{0x1f, byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)})
	}
	return h.Sum64()
}

func (m *Matcher) cacheGet(key uint64) ([]types.Candidate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cached, ok := m.cache[key]
	return cached, ok
}

func (m *Matcher) cachePut(key uint64, candidates []types.Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.cache) >= m.cfg.CacheSize {
		// Full reset is cheap at this size and avoids eviction bookkeeping.
		m.cache = make(map[uint64][]types.Candidate)
	}
	m.cache[key] = candidates
}
