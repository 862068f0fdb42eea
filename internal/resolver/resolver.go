package resolver

import (
	"fmt"

	"github.com/standardbeagle/snr/internal/debug"
	snrerrors "github.com/standardbeagle/snr/internal/errors"
	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/parser"
	"github.com/standardbeagle/snr/internal/types"
)

// ProbeFunc is the external fuzzy index contract: approximate matches
// for a canonical term, already ordered by the index's own relevance.
type ProbeFunc func(term string, filter types.SourceSet) ([]types.Candidate, error)

// Resolver matches raw name strings against a canonical index, degrading
// from exact hits through fuzzy candidates to progressively shortened
// forms. It holds no mutable state; independent Resolve calls may run
// concurrently.
type Resolver struct {
	ix    *index.CanonicalIndex
	probe ProbeFunc
}

// New builds a resolver over an index snapshot and a fuzzy probe.
func New(ix *index.CanonicalIndex, probe ProbeFunc) *Resolver {
	return &Resolver{ix: ix, probe: probe}
}

// Resolve matches every input name, producing exactly one Response per
// input. sourceIDs empty means no filter. advanced enables recursive
// shortening; without it, results whose edit distances are both zero are
// suppressed, leaving only the fuzzy tier on the wire.
func (r *Resolver) Resolve(names []string, sourceIDs []int, advanced bool) ([]types.Response, error) {
	filter := types.SourceSetFromInts(sourceIDs)

	splits := make([]NameSplit, 0, len(names))
	failures := make([]types.Response, 0)
	for _, raw := range names {
		parsed := parser.Parse(raw)
		if _, ok := parsed.Canonized(); !ok {
			failures = append(failures, types.NewResponse(parsed.ID, nil))
			continue
		}
		splits = append(splits, SplitFromParsed(parsed))
	}
	debug.LogResolve("resolving %d names (%d unparseable, advanced=%v)\n",
		len(names), len(failures), advanced)

	resolved, err := r.resolveFromSplits(splits, filter, advanced)
	if err != nil {
		return nil, err
	}

	if !advanced {
		resolved = suppressExact(resolved)
	}
	return append(resolved, failures...), nil
}

// resolveFromSplits executes one level of the resolution recursion.
func (r *Resolver) resolveFromSplits(batch []NameSplit, filter types.SourceSet, advanced bool) ([]types.Response, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	c := classify(batch, r.ix, filter)
	responses := make([]types.Response, 0, len(batch))

	for _, split := range c.genusOnly {
		responses = append(responses, genusOnlyResponse(split, r.ix.Intersects(split.Partial, filter)))
	}
	for _, split := range c.exactHits {
		responses = append(responses, exactResponse(split))
	}

	var unmatched []NameSplit
	for _, split := range c.fuzzyQueue {
		candidates, err := r.probe(split.Partial, filter)
		if err != nil {
			return nil, snrerrors.NewProbeError(split.Partial, err)
		}
		surviving := r.filterCandidates(candidates, filter)
		if len(surviving) == 0 {
			unmatched = append(unmatched, split)
			continue
		}
		responses = append(responses, fuzzyResponse(split, surviving))
	}

	if advanced {
		shortened := make([]NameSplit, 0, len(unmatched))
		for _, split := range unmatched {
			shortened = append(shortened, split.Shorten())
		}
		deeper, err := r.resolveFromSplits(shortened, filter, advanced)
		if err != nil {
			return nil, err
		}
		responses = append(responses, deeper...)
	} else {
		for _, split := range unmatched {
			responses = append(responses, emptyResponse(split))
		}
	}

	if len(responses) != len(batch) {
		panic(fmt.Sprintf("resolver invariant violated: %d responses for %d splits",
			len(responses), len(batch)))
	}
	return responses, nil
}

// filterCandidates keeps candidates whose term survives the data-source
// filter in the index. With an empty filter, any indexed term survives.
func (r *Resolver) filterCandidates(candidates []types.Candidate, filter types.SourceSet) []types.Candidate {
	surviving := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if r.ix.Intersects(c.Term, filter) {
			surviving = append(surviving, c)
		}
	}
	return surviving
}

// suppressExact strips results whose edit distances are both zero. The
// non-advanced caller asked for the fuzzy tier only.
func suppressExact(responses []types.Response) []types.Response {
	out := make([]types.Response, 0, len(responses))
	for _, resp := range responses {
		kept := make([]types.Result, 0, len(resp.Results))
		for _, result := range resp.Results {
			if m, ok := result.MatchKind.(types.CanonicalMatch); ok {
				if m.StemEditDistance == 0 && m.VerbatimEditDistance == 0 {
					continue
				}
			}
			kept = append(kept, result)
		}
		out = append(out, types.NewResponse(resp.InputID, kept))
	}
	return out
}
