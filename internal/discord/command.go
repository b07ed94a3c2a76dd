package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/usestring/fergun/internal/locale"
	"github.com/usestring/fergun/internal/render"
)

// User-facing messages
const (
	msgThrottled = "You're using this command too fast. Try again in %s."
	msgTimeout   = "Wolfram|Alpha took too long to respond. Try again later."
	msgFailed    = "Failed to get the results. Try again later."
)

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.Interaction) {
	userID := interactionUserID(i)
	if ok, retryAfter := b.limiter.allow(userID); !ok {
		b.respondEphemeral(i, fmt.Sprintf(msgThrottled, max(retryAfter, time.Second).Round(time.Second)))
		return
	}

	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Warn("failed to defer command response",
			slog.String("interaction_id", i.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	input := commandInput(i)
	language := locale.Language(string(i.Locale), b.opts.DefaultLanguage)

	queryCtx, cancel := context.WithTimeout(ctx, b.opts.QueryTimeout)
	defer cancel()

	start := time.Now()
	result, err := b.querier.Query(queryCtx, input, language)
	if err != nil {
		b.logger.Error("wolfram query failed",
			slog.String("user_id", userID),
			slog.String("input", input),
			slog.String("language", language),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)
		msg := msgFailed
		if errors.Is(err, context.DeadlineExceeded) {
			msg = msgTimeout
		}
		b.editResponse(i, render.Message{Content: msg}, nil)
		return
	}

	b.logger.Info("wolfram query",
		slog.String("user_id", userID),
		slog.String("input", input),
		slog.String("language", language),
		slog.String("type", result.Type().String()),
		slog.Int("pods", len(result.Pods)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	reply := render.Result(result)
	if reply.Message != nil {
		b.editResponse(i, *reply.Message, nil)
		return
	}

	pages := reply.Pages
	if pages.Len() == 1 {
		b.editResponse(i, pages.Page(0), nil)
		return
	}

	p := &pager{interaction: i, userID: userID, pages: pages}
	b.pagers.Add(i.ID, p)
	b.editResponse(i, pages.Page(0), render.PaginatorComponents(i.ID, 0, pages.Len(), false))
}

func (b *Bot) editResponse(i *discordgo.Interaction, msg render.Message, components []discordgo.MessageComponent) {
	edit := &discordgo.WebhookEdit{
		Content:     &msg.Content,
		Files:       msg.Files,
		Attachments: noAttachments(),
	}
	if len(msg.Embeds) > 0 {
		edit.Embeds = &msg.Embeds
	}
	if components != nil {
		edit.Components = &components
	}
	if _, err := b.session.InteractionResponseEdit(i, edit); err != nil {
		b.logger.Warn("failed to edit command response",
			slog.String("interaction_id", i.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (b *Bot) handleAutocomplete(ctx context.Context, i *discordgo.Interaction) {
	var choices []*discordgo.ApplicationCommandOptionChoice

	if input := strings.TrimSpace(commandInput(i)); input != "" {
		acCtx, cancel := context.WithTimeout(ctx, b.opts.AutocompleteTimeout)
		suggestions, err := b.suggester.Autocomplete(acCtx, input)
		cancel()
		if err != nil {
			b.logger.Warn("autocomplete failed",
				slog.String("input", input),
				slog.String("error", err.Error()),
			)
		}
		choices = render.Choices(suggestions)
	}

	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.logger.Debug("failed to send autocomplete choices",
			slog.String("interaction_id", i.ID),
			slog.String("error", err.Error()),
		)
	}
}

// commandInput returns the value of the input option, or "" when absent.
func commandInput(i *discordgo.Interaction) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == inputOption && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
