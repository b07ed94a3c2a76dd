package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fergun/internal/mcp/prompts"
	"github.com/usestring/fergun/internal/mcp/tools"
)

// Server wraps the MCP server with the Wolfram|Alpha tools.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	enableBuiltinTools   bool
	enableBuiltinPrompts bool

	customRegistrations []func(*sdkmcp.Server)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the builtin Wolfram|Alpha tools and resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.enableBuiltinTools = true
	}
}

// WithBuiltinPrompts enables the builtin Wolfram|Alpha prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.enableBuiltinPrompts = true
	}
}

// WithCustomRegistration runs fn against the SDK server after the builtins
// are registered.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.customRegistrations = append(s.customRegistrations, fn)
	}
}

// NewServer creates a new MCP server with the provided dependencies and options.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil {
		return nil, fmt.Errorf("deps is required")
	}
	if deps.Wolfram == nil || deps.Autocomplete == nil || deps.Query == nil || deps.Config == nil {
		return nil, fmt.Errorf("deps is incomplete")
	}

	s := &Server{deps: deps}

	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{
			Name:    "fergun",
			Version: "0.1.0",
		},
		nil,
	)

	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware(slog.Default()))

	promptCfg := &prompts.Config{
		DefaultLanguage: deps.Config.DefaultLanguage,
	}

	if s.enableBuiltinTools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.enableBuiltinPrompts {
		prompts.Register(s.mcpServer, promptCfg)
	}

	for _, fn := range s.customRegistrations {
		fn(s.mcpServer)
	}

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
