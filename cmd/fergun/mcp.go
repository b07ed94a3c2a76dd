package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/fergun/pkg/mcpsrv"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve Wolfram|Alpha tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.loadConfig()

			client := newWolframClient(cfg)
			defer client.Close()

			server, err := mcpsrv.NewServer(client, mcpsrv.WithConfig(cfg))
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
