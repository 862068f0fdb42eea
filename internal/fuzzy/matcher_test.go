package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/types"
)

func fixtureMatcher(t *testing.T, cfg Config) *Matcher {
	t.Helper()
	ix := index.New(map[string]types.SourceSet{
		"Homo sapiens": types.NewSourceSet(1),
		"Homo":         types.NewSourceSet(1, 2),
		"Felis catus":  types.NewSourceSet(3),
	})
	return NewMatcher(ix, cfg)
}

func TestFindMatchesTypo(t *testing.T) {
	m := fixtureMatcher(t, DefaultConfig())

	candidates, err := m.FindMatches("Homo sapens", types.SourceSet{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	require.Equal(t, "Homo sapiens", c.Term)
	require.Equal(t, 1, c.VerbatimEditDistance)
	require.LessOrEqual(t, c.StemEditDistance, 1)
}

func TestFindMatchesUninomial(t *testing.T) {
	m := fixtureMatcher(t, DefaultConfig())

	candidates, err := m.FindMatches("Hono", types.SourceSet{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "Homo", candidates[0].Term)

	// A uninomial query never matches a multinomial term.
	for _, c := range candidates {
		require.NotContains(t, c.Term, " ")
	}
}

func TestFindMatchesWordCountBoundary(t *testing.T) {
	m := fixtureMatcher(t, DefaultConfig())

	// A three-word query only probes three-word terms, and there are none.
	candidates, err := m.FindMatches("Homo sapiens ferus", types.SourceSet{})
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestFindMatchesSourceFilter(t *testing.T) {
	m := fixtureMatcher(t, DefaultConfig())

	// Filter {3} excludes Homo sapiens (source 1).
	candidates, err := m.FindMatches("Homo sapens", types.NewSourceSet(3))
	require.NoError(t, err)
	require.Empty(t, candidates)

	candidates, err = m.FindMatches("Homo sapens", types.NewSourceSet(1))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
}

func TestFindMatchesNoMatch(t *testing.T) {
	m := fixtureMatcher(t, DefaultConfig())

	candidates, err := m.FindMatches("Xylophonus qqq", types.SourceSet{})
	require.NoError(t, err)
	require.Empty(t, candidates)

	candidates, err = m.FindMatches("", types.SourceSet{})
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestFindMatchesCached(t *testing.T) {
	m := fixtureMatcher(t, DefaultConfig())

	first, err := m.FindMatches("Homo sapens", types.SourceSet{})
	require.NoError(t, err)
	second, err := m.FindMatches("Homo sapens", types.SourceSet{})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFindMatchesOrdering(t *testing.T) {
	ix := index.New(map[string]types.SourceSet{
		"Parus maior": types.NewSourceSet(1),
		"Parus major": types.NewSourceSet(1),
	})
	m := NewMatcher(ix, DefaultConfig())

	candidates, err := m.FindMatches("Parus majo", types.SourceSet{})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		require.LessOrEqual(t, prev.StemEditDistance, cur.StemEditDistance)
	}
}

func TestStemCanonicalKeepsGenus(t *testing.T) {
	stemmed := StemCanonical("Homo sapiens", 4)

	require.Contains(t, stemmed, "Homo ")
	require.NotEqual(t, "Homo sapiens", stemmed, "epithet should be stemmed")
}

func TestStemCanonicalMinLength(t *testing.T) {
	// Short epithets pass through untouched.
	require.Equal(t, "Canis rex", StemCanonical("Canis rex", 4))
}
