package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/usestring/fergun/internal/logging"
)

// NewSession creates a gateway session for a bot token and routes
// discordgo's own logging into logger.
func NewSession(token string, logger *slog.Logger, level slog.Level) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	discordgo.Logger = logging.DiscordLogger(logger)
	s.LogLevel = logging.DiscordLogLevel(level)
	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

// Serve connects s, registers the commands in guildID (global when empty)
// and routes interactions to b until ctx is cancelled.
func Serve(ctx context.Context, s *discordgo.Session, b *Bot, guildID string) error {
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("connected to discord",
			slog.String("username", r.User.Username),
			slog.Int("guilds", len(r.Guilds)),
		)
	})
	s.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.HandleInteraction(ctx, i)
	})

	if err := s.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	defer s.Close()

	registered, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, Commands(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	b.logger.Info("registered commands",
		slog.Int("count", len(registered)),
		slog.String("guild_id", guildID),
	)

	<-ctx.Done()
	b.logger.Info("disconnecting from discord")
	return nil
}
