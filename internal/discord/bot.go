// Package discord implements the /wolfram slash command.
package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/usestring/fergun/pkg/wolfram"
)

// CommandName is the registered slash command name.
const CommandName = "wolfram"

const inputOption = "input"

// Defaults applied by New for zero Options fields.
const (
	DefaultQueryTimeout        = 20 * time.Second
	DefaultPaginatorTimeout    = 10 * time.Minute
	DefaultAutocompleteTimeout = 2500 * time.Millisecond
	DefaultLanguage            = "en"
	maxPagers                  = 1000
)

// Session is the subset of *discordgo.Session the bot uses.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Querier runs Wolfram|Alpha queries.
type Querier interface {
	Query(ctx context.Context, input, language string) (*wolfram.QueryResult, error)
}

// Suggester returns autocomplete suggestions for an input prefix.
type Suggester interface {
	Autocomplete(ctx context.Context, input string) ([]string, error)
}

// Options configures a Bot.
type Options struct {
	QueryTimeout        time.Duration
	PaginatorTimeout    time.Duration
	AutocompleteTimeout time.Duration
	DefaultLanguage     string
	RatePerSec          float64 // Per-user command rate; 0 disables throttling
	Burst               int
	Logger              *slog.Logger
}

// Bot handles interactions for the /wolfram command.
type Bot struct {
	session   Session
	querier   Querier
	suggester Suggester
	opts      Options
	logger    *slog.Logger
	limiter   *userLimiter
	pagers    *expirable.LRU[string, *pager]
}

// New creates a Bot answering interactions through session.
func New(session Session, querier Querier, suggester Suggester, opts Options) *Bot {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.PaginatorTimeout <= 0 {
		opts.PaginatorTimeout = DefaultPaginatorTimeout
	}
	if opts.AutocompleteTimeout <= 0 {
		opts.AutocompleteTimeout = DefaultAutocompleteTimeout
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = DefaultLanguage
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		session:   session,
		querier:   querier,
		suggester: suggester,
		opts:      opts,
		logger:    logger,
		limiter:   newUserLimiter(opts.RatePerSec, opts.Burst),
	}
	b.pagers = expirable.NewLRU[string, *pager](maxPagers, b.onPagerEvicted, opts.PaginatorTimeout)
	return b
}

// Commands returns the application commands to register.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandName,
			Description: "Asks Wolfram|Alpha about something.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         inputOption,
					Description:  "Something to calculate or know about.",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}

// HandleInteraction dispatches an interaction to the matching handler.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == CommandName {
			b.handleCommand(ctx, i.Interaction)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == CommandName {
			b.handleAutocomplete(ctx, i.Interaction)
		}
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i.Interaction)
	}
}

func (b *Bot) respondEphemeral(i *discordgo.Interaction, content string) {
	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("failed to send ephemeral response",
			slog.String("interaction_id", i.ID),
			slog.String("error", err.Error()),
		)
	}
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
