package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usestring/fergun/internal/config"
	"github.com/usestring/fergun/internal/logging"
	"github.com/usestring/fergun/pkg/wolfram"
)

var (
	version = "dev"
	commit  = "none"
)

// execute runs the CLI and returns the process exit code.
func execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fergun",
		Short:         "Wolfram|Alpha for Discord and MCP clients",
		Long:          "fergun runs the /wolfram Discord bot, serves Wolfram|Alpha tools over MCP, and queries Wolfram|Alpha from the command line.\n\nSettings are read from the environment (DISCORD_TOKEN, QUERY_TIMEOUT_MS, LOG_LEVEL, ...).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Log file path (overrides LOG_FILE)")

	rootCmd.AddCommand(
		newBotCmd(opts),
		newMCPCmd(opts),
		newWolframCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads the environment and applies flag overrides.
func (o *rootOptions) loadConfig() *config.Config {
	cfg := config.Load()
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	return cfg
}

func setupLogging(cfg *config.Config) (func() error, error) {
	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}
	return cleanup, nil
}

func newWolframClient(cfg *config.Config) *wolfram.Client {
	return wolfram.New(
		wolfram.WithResultsURL(cfg.WolframResultsURL),
		wolfram.WithAutocompleteURL(cfg.WolframAutocompleteURL),
		wolfram.WithUserAgent(cfg.WolframUserAgent),
		wolfram.WithHTTPClient(&http.Client{Timeout: cfg.HTTPClientTimeout}),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "fergun %s (commit: %s)\n", version, commit)
			return err
		},
	}
}
