package mcp

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/snr/internal/config"
	"github.com/standardbeagle/snr/internal/fuzzy"
	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/resolver"
	"github.com/standardbeagle/snr/internal/sources"
	"github.com/standardbeagle/snr/internal/version"
)

// Server exposes name resolution over the Model Context Protocol. It
// reads index snapshots through a Handle so a background reload never
// changes data under a running tool call.
type Server struct {
	cfg      *config.Config
	handle   *index.Handle
	registry *sources.Registry
	load     index.LoadStats

	server           *mcp.Server
	diagnosticLogger *log.Logger

	// Fuzzy matchers are tied to an index snapshot; rebuilt lazily after
	// a swap.
	matcherMu sync.Mutex
	matcherIx *index.CanonicalIndex
	matcher   *fuzzy.Matcher
}

// NewServer wires a server over a live index handle.
func NewServer(cfg *config.Config, handle *index.Handle, registry *sources.Registry, load index.LoadStats, logWriter io.Writer) *Server {
	if logWriter == nil {
		logWriter = io.Discard
	}
	s := &Server{
		cfg:              cfg,
		handle:           handle,
		registry:         registry,
		load:             load,
		diagnosticLogger: log.New(logWriter, "[SNR-MCP] ", log.LstdFlags|log.Lmicroseconds),
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "snr-mcp-server",
		Version: version.Version,
	}, nil)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "resolve_names",
		Description: "Resolve scientific name strings against the canonical index. Returns one response per input with exact, partial, or fuzzy canonical matches and edit distances.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"names": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Raw scientific name strings to resolve",
				},
				"source_ids": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "integer"},
					Description: "Restrict matches to these data sources; empty means any source",
				},
				"advanced": {
					Type:        "boolean",
					Description: "Enable recursive shortening and keep exact hits in the output (default from config)",
				},
			},
			Required: []string{"names"},
		},
	}, s.handleResolveNames)

	s.server.AddTool(&mcp.Tool{
		Name:        "index_status",
		Description: "Report canonical index statistics and registered data sources.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleIndexStatus)
}

// resolverFor builds a resolver against the current snapshot, reusing
// the fuzzy matcher while the snapshot is unchanged.
func (s *Server) resolverFor() *resolver.Resolver {
	ix := s.handle.Current()

	s.matcherMu.Lock()
	if s.matcherIx != ix {
		s.matcher = fuzzy.NewMatcher(ix, fuzzy.Config{
			MaxEditDistance: s.cfg.Fuzzy.MaxEditDistance,
			MinStemLength:   s.cfg.Fuzzy.MinStemLength,
			MaxCandidates:   s.cfg.Fuzzy.MaxCandidates,
			CacheSize:       s.cfg.Fuzzy.CacheSize,
		})
		s.matcherIx = ix
	}
	matcher := s.matcher
	s.matcherMu.Unlock()

	return resolver.New(ix, matcher.FindMatches)
}

// recoverFromPanic provides panic recovery middleware for tool handlers.
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.diagnosticLogger.Printf("PANIC RECOVERED in %s: %v", operation, r)
			s.diagnosticLogger.Printf("Stack trace: %s", debug.Stack())
			result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
		}
	}()

	result, err = handler()
	if err != nil {
		s.diagnosticLogger.Printf("Error in %s: %v", operation, err)
		return createErrorResponse(operation, err)
	}
	return result, nil
}

// Run serves the stdio transport until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
