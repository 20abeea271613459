package mcp

import (
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// declareTool translates a registry definition into an MCP tool declaration.
func declareTool(def *registry.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, f := range def.Schema {
		opts = append(opts, declareField(f))
	}
	return mcp.NewTool(def.Name, opts...)
}

func declareField(f schema.Field) mcp.ToolOption {
	props := []mcp.PropertyOption{mcp.Description(f.Description)}
	if f.Required {
		props = append(props, mcp.Required())
	}

	switch f.Kind {
	case schema.KindNumber:
		if def, ok := f.Default.(float64); ok {
			props = append(props, mcp.DefaultNumber(def))
		}
		return mcp.WithNumber(f.Name, props...)

	case schema.KindBool:
		if def, ok := f.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(def))
		}
		return mcp.WithBoolean(f.Name, props...)

	case schema.KindStringSlice:
		props = append(props, mcp.Items(map[string]any{"type": "string"}))
		return mcp.WithArray(f.Name, props...)

	case schema.KindStringMap:
		return mcp.WithObject(f.Name, props...)

	case schema.KindEnum:
		props = append(props, mcp.Enum(f.AllowedValues...))
		if def, ok := f.Default.(string); ok {
			props = append(props, mcp.DefaultString(def))
		}
		return mcp.WithString(f.Name, props...)

	default:
		if def, ok := f.Default.(string); ok {
			props = append(props, mcp.DefaultString(def))
		}
		return mcp.WithString(f.Name, props...)
	}
}

// invocationFrom builds a dispatcher invocation for an incoming call.
// The SDK does not surface the JSON-RPC id, so a fresh correlation token is
// minted per call; the SDK itself echoes the wire id back to the client.
func invocationFrom(tool string, request mcp.CallToolRequest) domain.Invocation {
	return domain.Invocation{
		ID:   uuid.NewString(),
		Tool: tool,
		Args: request.GetArguments(),
	}
}
