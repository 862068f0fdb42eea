package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/snr/internal/config"
	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/types"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	ix := index.New(map[string]types.SourceSet{
		"Homo sapiens": types.NewSourceSet(1),
		"Homo":         types.NewSourceSet(1, 2),
		"Felis catus":  types.NewSourceSet(3),
	})
	return NewServer(config.Default(), index.NewHandle(ix), nil, index.LoadStats{Files: 1, Records: 3}, nil)
}

func TestResolveNamesTool(t *testing.T) {
	s := testServer(t)

	out, err := s.CallTool("resolve_names", map[string]interface{}{
		"names":    []string{"Homo sapiens"},
		"advanced": true,
	})
	require.NoError(t, err)

	var output ResolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Equal(t, 1, output.Count)
	require.Len(t, output.Responses, 1)
	require.Len(t, output.Responses[0].Results, 1)
	require.Equal(t, "Homo sapiens", output.Responses[0].Results[0].NameMatched.Value)
}

func TestResolveNamesDefaultsAdvancedFromConfig(t *testing.T) {
	s := testServer(t)

	out, err := s.CallTool("resolve_names", map[string]interface{}{
		"names": []string{"Homo sapiens"},
	})
	require.NoError(t, err)

	var output ResolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.True(t, output.Advanced, "config default is advanced=true")
}

func TestResolveNamesRejectsEmpty(t *testing.T) {
	s := testServer(t)

	_, err := s.CallTool("resolve_names", map[string]interface{}{
		"names": []string{},
	})
	require.Error(t, err)
}

func TestResolveNamesWithSourceFilter(t *testing.T) {
	s := testServer(t)

	out, err := s.CallTool("resolve_names", map[string]interface{}{
		"names":      []string{"Homo sapiens"},
		"source_ids": []int{3},
		"advanced":   true,
	})
	require.NoError(t, err)

	var output ResolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Responses, 1)
	require.Empty(t, output.Responses[0].Results, "source 3 does not carry Homo sapiens")
}

func TestIndexStatusTool(t *testing.T) {
	s := testServer(t)

	out, err := s.CallTool("index_status", nil)
	require.NoError(t, err)

	var output StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Equal(t, 3, output.Stats.Names)
	require.Equal(t, 3, output.Stats.Sources)
	require.Equal(t, 1, output.Stats.Load.Files)
}

func TestResolverReusedAcrossCallsAndRebuiltOnSwap(t *testing.T) {
	s := testServer(t)

	_, err := s.CallTool("resolve_names", map[string]interface{}{"names": []string{"Homo"}})
	require.NoError(t, err)
	firstMatcher := s.matcher

	_, err = s.CallTool("resolve_names", map[string]interface{}{"names": []string{"Homo"}})
	require.NoError(t, err)
	require.Same(t, firstMatcher, s.matcher, "matcher reused while snapshot unchanged")

	s.handle.Swap(index.New(map[string]types.SourceSet{
		"Canis lupus": types.NewSourceSet(4),
	}))
	_, err = s.CallTool("resolve_names", map[string]interface{}{"names": []string{"Canis lupus"}})
	require.NoError(t, err)
	require.NotSame(t, firstMatcher, s.matcher, "matcher rebuilt after snapshot swap")
}
