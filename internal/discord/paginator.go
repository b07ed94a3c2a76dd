package discord

import (
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/usestring/fergun/internal/render"
)

// User-facing paginator messages
const (
	msgExpired  = "This paginator has expired."
	msgNotOwner = "Only the user who ran the command can use these buttons."
)

// pager is the page state of one paged reply.
type pager struct {
	interaction *discordgo.Interaction
	userID      string
	pages       *render.Pages

	mu      sync.Mutex
	index   int
	stopped bool
}

func (b *Bot) handleComponent(i *discordgo.Interaction) {
	action, id, ok := render.ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	p, found := b.pagers.Get(id)
	if !found {
		b.respondEphemeral(i, msgExpired)
		return
	}
	if interactionUserID(i) != p.userID {
		b.respondEphemeral(i, msgNotOwner)
		return
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		b.respondEphemeral(i, msgExpired)
		return
	}
	switch action {
	case render.ActionPrevious:
		p.index = max(0, p.index-1)
	case render.ActionNext:
		p.index = min(p.pages.Len()-1, p.index+1)
	case render.ActionStop:
		p.stopped = true
	}
	index, stopped := p.index, p.stopped
	p.mu.Unlock()

	if stopped {
		b.pagers.Remove(id)
	}

	msg := p.pages.Page(index)
	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:      msg.Embeds,
			Files:       msg.Files,
			Attachments: noAttachments(),
			Components:  render.PaginatorComponents(id, index, p.pages.Len(), stopped),
		},
	})
	if err != nil {
		b.logger.Warn("failed to update paginator",
			slog.String("pager_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// onPagerEvicted runs under the store's lock when a pager expires or is
// removed; the network call happens on its own goroutine.
func (b *Bot) onPagerEvicted(id string, p *pager) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	index := p.index
	p.mu.Unlock()

	go b.disablePager(id, p, index)
}

// noAttachments drops the attachments of the message being edited, leaving
// only the files uploaded with the edit.
func noAttachments() *[]*discordgo.MessageAttachment {
	return &[]*discordgo.MessageAttachment{}
}

// disablePager leaves Attachments unset so the current page keeps its image.
func (b *Bot) disablePager(id string, p *pager, index int) {
	components := render.PaginatorComponents(id, index, p.pages.Len(), true)
	_, err := b.session.InteractionResponseEdit(p.interaction, &discordgo.WebhookEdit{Components: &components})
	if err != nil {
		b.logger.Debug("failed to disable expired paginator",
			slog.String("pager_id", id),
			slog.String("error", err.Error()),
		)
	}
}
