package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/usestring/fergun/pkg/jsoncompact"
)

func newWolframCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wolfram",
		Short: "Query Wolfram|Alpha from the command line",
	}
	cmd.AddCommand(newQueryCmd(opts), newAutocompleteCmd(opts))
	return cmd
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		language string
		timeout  time.Duration
		full     bool
	)

	cmd := &cobra.Command{
		Use:   "query <input...>",
		Short: "Run a Wolfram|Alpha query and print the result as JSON",
		Long:  "Runs a query and prints the result as JSON. Long strings, long arrays and inline image data are compacted unless --full is given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			if language == "" {
				language = cfg.DefaultLanguage
			}
			if timeout <= 0 {
				timeout = cfg.QueryTimeout
			}

			cleanup, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			client := newWolframClient(cfg)
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := client.Query(ctx, strings.Join(args, " "), language)
			if err != nil {
				return err
			}

			data, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			if !full {
				compactOpts := cfg.CompactOptions()
				if data, err = jsoncompact.Compact(data, &compactOpts); err != nil {
					return err
				}
			}
			return printJSON(cmd, data)
		},
	}

	cmd.Flags().StringVarP(&language, "lang", "l", "", "Answer language as an ISO 639-1 code (default DEFAULT_LANGUAGE)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Query timeout (default QUERY_TIMEOUT_MS)")
	cmd.Flags().BoolVar(&full, "full", false, "Print the complete result, including inline images")
	return cmd
}

func newAutocompleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "autocomplete <input...>",
		Short: "Print query suggestions for a partial input, one per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()

			cleanup, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			client := newWolframClient(cfg)
			defer client.Close()

			suggestions, err := client.Autocomplete(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			for _, s := range suggestions {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
