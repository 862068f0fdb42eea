package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/snr/internal/index"
	"github.com/standardbeagle/snr/internal/sources"
	"github.com/standardbeagle/snr/internal/types"
)

// ResolveParams are the arguments of the resolve_names tool.
type ResolveParams struct {
	Names     []string `json:"names"`
	SourceIDs []int    `json:"source_ids"`
	Advanced  *bool    `json:"advanced"`
}

// ResolveOutput is the resolve_names result payload.
type ResolveOutput struct {
	Responses []types.Response `json:"responses"`
	Count     int              `json:"count"`
	Advanced  bool             `json:"advanced"`
}

// StatusOutput is the index_status result payload.
type StatusOutput struct {
	Stats   index.Stats      `json:"stats"`
	Sources []sources.Source `json:"sources,omitempty"`
}

func (s *Server) handleResolveNames(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("resolve_names", func() (*mcp.CallToolResult, error) {
		var params ResolveParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
		if len(params.Names) == 0 {
			return nil, fmt.Errorf("names must not be empty")
		}
		if err := s.registry.Validate(params.SourceIDs); err != nil {
			return nil, err
		}

		advanced := s.cfg.Resolve.Advanced
		if params.Advanced != nil {
			advanced = *params.Advanced
		}

		responses, err := s.resolverFor().Resolve(params.Names, params.SourceIDs, advanced)
		if err != nil {
			return nil, err
		}

		return createJSONResponse(ResolveOutput{
			Responses: responses,
			Count:     len(responses),
			Advanced:  advanced,
		})
	})
}

func (s *Server) handleIndexStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("index_status", func() (*mcp.CallToolResult, error) {
		ix := s.handle.Current()
		return createJSONResponse(StatusOutput{
			Stats:   index.CollectStats(ix, s.load),
			Sources: s.registry.All(),
		})
	})
}

// createJSONResponse marshals a payload into a text content result.
func createJSONResponse(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

// createErrorResponse reports a handler failure through the protocol.
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	payload := map[string]interface{}{
		"error":     err.Error(),
		"operation": operation,
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		data = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}
