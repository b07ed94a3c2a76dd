package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fergun/internal/cache"
	"github.com/usestring/fergun/internal/config"
	"github.com/usestring/fergun/internal/logging"
	"github.com/usestring/fergun/internal/mcp"
	"github.com/usestring/fergun/internal/mcp/tools"
	"github.com/usestring/fergun/internal/query"
	"github.com/usestring/fergun/pkg/wolfram"
)

// Server is the Wolfram|Alpha MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin Wolfram|Alpha tools.
//
// The client is required. The server does not close it.
func NewServer(c *wolfram.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	autocomplete, err := cache.NewAutocompleteCache(c, cfg.config.AutocompleteCacheMaxItems, cfg.config.AutocompleteCacheTTL)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create autocomplete cache: %w", err)
	}

	deps := &Deps{
		Wolfram:      c,
		Autocomplete: autocomplete,
		Query:        query.NewEngine(query.DefaultProgramCacheSize),
		Config:       cfg.config,
	}
	toolDeps := &tools.Deps{
		Wolfram:      deps.Wolfram,
		Autocomplete: deps.Autocomplete,
		Query:        deps.Query,
		Config:       deps.Config,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close flushes and closes the log file, if any.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
