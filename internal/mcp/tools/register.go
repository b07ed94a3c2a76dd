package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "wolfram_query",
		Description: "Ask Wolfram|Alpha a question or give it something to compute. Returns the result type and the pods (titled sections with plain text and image URLs). When the input is not understood the result is didYouMean (with suggestions) or noResult. Pass jq to select part of the full result JSON, e.g. '.pods[] | select(.title == \"Result\") | .subpods[].plaintext'.",
	}, ToolQuery(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "wolfram_autocomplete",
		Description: "Suggest complete Wolfram|Alpha queries for a partial input. Use it to fix up an input before calling wolfram_query.",
	}, ToolAutocomplete(d))
}
