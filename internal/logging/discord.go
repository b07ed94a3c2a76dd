package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// DiscordLogger returns a function suitable for discordgo.Logger that
// forwards discordgo's internal messages to logger.
func DiscordLogger(logger *slog.Logger) func(msgL, caller int, format string, a ...any) {
	return func(msgL, _ int, format string, a ...any) {
		logger.Log(context.Background(), discordLevel(msgL), fmt.Sprintf(format, a...), "component", "discordgo")
	}
}

// DiscordLogLevel maps a slog level to the discordgo level that lets the
// same messages through.
func DiscordLogLevel(level slog.Level) int {
	switch {
	case level <= slog.LevelDebug:
		return discordgo.LogDebug
	case level <= slog.LevelInfo:
		return discordgo.LogInformational
	case level <= slog.LevelWarn:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

func discordLevel(msgL int) slog.Level {
	switch msgL {
	case discordgo.LogError:
		return slog.LevelError
	case discordgo.LogWarning:
		return slog.LevelWarn
	case discordgo.LogInformational:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
