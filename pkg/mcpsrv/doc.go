// Package mcpsrv provides an extensible MCP server for Wolfram|Alpha.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin wolfram_query and wolfram_autocomplete tools, the
// wolfram_solve prompt and the wolfram://result resource. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
//	client := wolfram.New()
//	defer client.Close()
//
//	server, err := mcpsrv.NewServer(client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools that reuse the server's infrastructure:
//
//	type PlotInput struct {
//	    Function string `json:"function"`
//	}
//
//	type PlotOutput struct {
//	    ImageURL string `json:"image_url"`
//	}
//
//	server, err := mcpsrv.NewServer(client,
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "plot", Description: "Plot a function"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, PlotInput) (*mcp.CallToolResult, PlotOutput, error) {
//	            return func(ctx context.Context, _ *mcp.CallToolRequest, in PlotInput) (*mcp.CallToolResult, PlotOutput, error) {
//	                res, err := d.Wolfram.Query(ctx, "plot "+in.Function, "en")
//	                ...
//	            }
//	        }),
//	)
//
// # Configuration
//
// Settings are loaded from the environment (see internal/config) and can be
// overridden:
//
//	server, err := mcpsrv.NewServer(
//	    client,
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/fergun.log"),
//	)
package mcpsrv
