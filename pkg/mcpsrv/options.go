package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fergun/internal/config"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config *config.Config

	// Logging overrides
	logLevel string
	logFile  string

	// Extension toggles
	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// Registration callbacks keep the generic handler types intact
	toolRegistrations     []func(*mcp.Server)
	promptRegistrations   []func(*mcp.Server)
	resourceRegistrations []func(*mcp.Server)

	// Deferred tool registrations that need access to Deps
	deferredToolRegistrations []func(*mcp.Server, *Deps)
}

// Option configures the server.
type Option func(*serverConfig)

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile sets the log file path.
// If empty, logs are written to stderr only.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(c *config.Config) Option {
	return func(cfg *serverConfig) {
		if c != nil {
			cfg.config = c
		}
	}
}

// WithoutBuiltinTools disables all builtin Wolfram|Alpha tools and resources.
// Use this if you want to register only your own tools.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables all builtin Wolfram|Alpha prompts.
// Use this if you want to register only your own prompts.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool with the server. In is decoded from the
// call arguments and Out is encoded as the structured result; both follow the
// MCP SDK's typed handler rules.
//
//	mcpsrv.WithTool(&mcp.Tool{Name: "echo", Description: "Echo the input"},
//	    func(ctx context.Context, _ *mcp.CallToolRequest, in EchoInput) (*mcp.CallToolResult, EchoOutput, error) {
//	        return nil, EchoOutput{Text: in.Text}, nil
//	    })
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.toolRegistrations = append(cfg.toolRegistrations, func(srv *mcp.Server) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool that has access to Deps.
// Use this when your tool needs the Wolfram|Alpha client, the autocomplete
// cache or the jq engine.
//
// The builder receives Deps and returns a handler function.
//
// Example:
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_pods", Description: "Count result pods"},
//	    func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            res, err := d.Wolfram.Query(ctx, input.Query, d.Config.DefaultLanguage)
//	            if err != nil {
//	                return nil, MyOutput{}, err
//	            }
//	            return nil, MyOutput{Count: len(res.Pods)}, nil
//	        }
//	    },
//	)
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.deferredToolRegistrations = append(cfg.deferredToolRegistrations, func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt with the server.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.promptRegistrations = append(cfg.promptRegistrations, func(srv *mcp.Server) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template with the server.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.resourceRegistrations = append(cfg.resourceRegistrations, func(srv *mcp.Server) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
