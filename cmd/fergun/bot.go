package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/fergun/internal/cache"
	"github.com/usestring/fergun/internal/discord"
	"github.com/usestring/fergun/internal/logging"
)

func newBotCmd(opts *rootOptions) *cobra.Command {
	var guildID string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot",
		Long:  "Connects to Discord with DISCORD_TOKEN, registers /wolfram and serves interactions until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.loadConfig()
			if cmd.Flags().Changed("guild") {
				cfg.DiscordGuildID = guildID
			}
			if cfg.DiscordToken == "" {
				return errors.New("DISCORD_TOKEN is not set")
			}

			cleanup, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			client := newWolframClient(cfg)
			defer client.Close()

			suggestions, err := cache.NewAutocompleteCache(client, cfg.AutocompleteCacheMaxItems, cfg.AutocompleteCacheTTL)
			if err != nil {
				return fmt.Errorf("creating autocomplete cache: %w", err)
			}

			logger := slog.Default()
			session, err := discord.NewSession(cfg.DiscordToken, logger, logging.ParseLevel(cfg.LogLevel))
			if err != nil {
				return err
			}

			bot := discord.New(session, client, suggestions, discord.Options{
				QueryTimeout:     cfg.QueryTimeout,
				PaginatorTimeout: cfg.PaginatorTimeout,
				DefaultLanguage:  cfg.DefaultLanguage,
				RatePerSec:       cfg.CommandRatePerSec,
				Burst:            cfg.CommandBurst,
				Logger:           logger,
			})

			slog.Info("starting discord bot", slog.String("guild", cfg.DiscordGuildID))
			if err := discord.Serve(cmd.Context(), session, bot, cfg.DiscordGuildID); err != nil {
				return err
			}
			slog.Info("bot stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Register the command in this guild only (overrides DISCORD_GUILD_ID)")
	return cmd
}
