package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fergun/internal/mcp/tools"
)

// AddTool registers a tool with the server after checking that the zero value
// of Out passes the output schema the SDK infers for it. Slice fields that may
// be nil need omitzero, otherwise they encode as null against an "array"
// schema.
//
// Panics naming the offending field if the check fails.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
