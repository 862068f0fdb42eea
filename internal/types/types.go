package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// SourceID identifies an external data source contributing canonical names.
type SourceID uint32

// SourceSet is an immutable set of data-source identifiers. The zero value
// is the empty set.
type SourceSet struct {
	ids []SourceID
}

// NewSourceSet builds a set from the given ids, deduplicating and sorting.
func NewSourceSet(ids ...SourceID) SourceSet {
	if len(ids) == 0 {
		return SourceSet{}
	}
	sorted := make([]SourceID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	deduped := sorted[:1]
	for _, id := range sorted[1:] {
		if id != deduped[len(deduped)-1] {
			deduped = append(deduped, id)
		}
	}
	return SourceSet{ids: deduped}
}

// SourceSetFromInts converts caller-facing int ids into a SourceSet.
// Negative ids are dropped.
func SourceSetFromInts(ids []int) SourceSet {
	converted := make([]SourceID, 0, len(ids))
	for _, id := range ids {
		if id >= 0 {
			converted = append(converted, SourceID(id))
		}
	}
	return NewSourceSet(converted...)
}

// IsEmpty reports whether the set has no members.
func (s SourceSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// Len returns the number of members.
func (s SourceSet) Len() int {
	return len(s.ids)
}

// Contains reports membership of a single id.
func (s SourceSet) Contains(id SourceID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// Intersects reports whether the two sets share at least one member.
func (s SourceSet) Intersects(other SourceSet) bool {
	i, j := 0, 0
	for i < len(s.ids) && j < len(other.ids) {
		switch {
		case s.ids[i] == other.ids[j]:
			return true
		case s.ids[i] < other.ids[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// IDs returns the members in ascending order. The returned slice is a copy.
func (s SourceSet) IDs() []SourceID {
	out := make([]SourceID, len(s.ids))
	copy(out, s.ids)
	return out
}

// nameNamespace scopes v5 name UUIDs so they are stable across processes
// and compatible with other tooling using the same namespace convention.
var nameNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("globalnames.org"))

// NameUUID derives the deterministic v5 UUID for a name string.
func NameUUID(value string) uuid.UUID {
	return uuid.NewSHA1(nameNamespace, []byte(value))
}

// Name pairs a name string with its derived UUID.
type Name struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// NewName builds a Name whose ID is derived from the value, which is the
// only way the two fields stay consistent.
func NewName(value string) Name {
	return Name{ID: NameUUID(value), Value: value}
}

// MatchKind is a closed tagged union describing how a result matched.
// Only CanonicalMatch is produced by the resolver; the remaining variants
// round-trip through the wire format for protocol completeness.
type MatchKind interface {
	Kind() string
	matchKind()
}

// CanonicalMatch reports a match against a canonical form. Partial marks
// results minted from a shortened name; the edit distances are zero for
// exact hits and taken from the fuzzy index otherwise.
type CanonicalMatch struct {
	Partial              bool `json:"partial"`
	StemEditDistance     int  `json:"stem_edit_distance"`
	VerbatimEditDistance int  `json:"verbatim_edit_distance"`
}

func (CanonicalMatch) Kind() string { return "canonical" }
func (CanonicalMatch) matchKind()   {}

// ExactMatch reports a verbatim name-string match. Never emitted by the
// canonical resolver.
type ExactMatch struct{}

func (ExactMatch) Kind() string { return "exact" }
func (ExactMatch) matchKind()   {}

// NoMatch is the explicit negative variant.
type NoMatch struct{}

func (NoMatch) Kind() string { return "none" }
func (NoMatch) matchKind()   {}

// Result is one matched name within a Response.
type Result struct {
	NameMatched Name
	MatchKind   MatchKind
}

type resultEnvelope struct {
	NameMatched Name            `json:"name_matched"`
	Kind        string          `json:"kind"`
	Match       json.RawMessage `json:"match,omitempty"`
}

// MarshalJSON encodes the match kind with a "kind" discriminator.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.MatchKind == nil {
		return nil, fmt.Errorf("result for %q has no match kind", r.NameMatched.Value)
	}
	match, err := json.Marshal(r.MatchKind)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resultEnvelope{
		NameMatched: r.NameMatched,
		Kind:        r.MatchKind.Kind(),
		Match:       match,
	})
}

// UnmarshalJSON decodes the discriminated union.
func (r *Result) UnmarshalJSON(data []byte) error {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	r.NameMatched = env.NameMatched

	switch env.Kind {
	case "canonical":
		var m CanonicalMatch
		if len(env.Match) > 0 {
			if err := json.Unmarshal(env.Match, &m); err != nil {
				return err
			}
		}
		r.MatchKind = m
	case "exact":
		r.MatchKind = ExactMatch{}
	case "none":
		r.MatchKind = NoMatch{}
	default:
		return fmt.Errorf("unknown match kind %q", env.Kind)
	}
	return nil
}

// Response carries all results for one input name. Results is never nil;
// an empty slice means the input found no acceptable match.
type Response struct {
	InputID uuid.UUID `json:"input_id"`
	Results []Result  `json:"results"`
}

// NewResponse builds a Response, normalizing nil results to an empty slice
// so the wire form serializes as [] rather than null.
func NewResponse(inputID uuid.UUID, results []Result) Response {
	if results == nil {
		results = []Result{}
	}
	return Response{InputID: inputID, Results: results}
}

// Candidate is one approximate match returned by a fuzzy index probe.
// Distances the index cannot compute are reported as zero.
type Candidate struct {
	Term                 string `json:"term"`
	StemEditDistance     int    `json:"stem_edit_distance"`
	VerbatimEditDistance int    `json:"verbatim_edit_distance"`
}
