package resolver

import (
	"github.com/standardbeagle/snr/internal/types"
)

// Response construction is centralized here so the two wire invariants
// hold everywhere: a result's name UUID is always derived from its value,
// and the partial flag always reflects the split's shortening state —
// except for genus-only degraded responses, which report partial=false
// on the wire. That exception is a published contract, not an accident.

// emptyResponse reports an input with no acceptable match.
func emptyResponse(split NameSplit) types.Response {
	return types.NewResponse(split.Parsed.ID, nil)
}

// genusOnlyResponse reports a split shortened down to its genus. When the
// index carries the genus under the filter the single result deliberately
// omits the partial flag.
func genusOnlyResponse(split NameSplit, found bool) types.Response {
	if !found {
		return emptyResponse(split)
	}
	return types.NewResponse(split.Parsed.ID, []types.Result{{
		NameMatched: types.NewName(split.Partial),
		MatchKind:   types.CanonicalMatch{},
	}})
}

// exactResponse reports an exact canonical hit. Distances are zero; the
// partial flag marks hits found after shortening.
func exactResponse(split NameSplit) types.Response {
	return types.NewResponse(split.Parsed.ID, []types.Result{{
		NameMatched: types.NewName(split.Partial),
		MatchKind:   types.CanonicalMatch{Partial: !split.IsOriginal},
	}})
}

// fuzzyResponse reports the surviving candidates for one split, in the
// order the fuzzy index returned them.
func fuzzyResponse(split NameSplit, candidates []types.Candidate) types.Response {
	results := make([]types.Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, types.Result{
			NameMatched: types.NewName(c.Term),
			MatchKind: types.CanonicalMatch{
				Partial:              !split.IsOriginal,
				StemEditDistance:     c.StemEditDistance,
				VerbatimEditDistance: c.VerbatimEditDistance,
			},
		})
	}
	return types.NewResponse(split.Parsed.ID, results)
}
