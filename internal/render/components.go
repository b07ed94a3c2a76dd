package render

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Paginator actions carried in button custom IDs.
const (
	ActionPrevious = "prev"
	ActionNext     = "next"
	ActionStop     = "stop"
)

const customIDPrefix = "wolfram"

// CustomID builds the custom ID of a paginator button.
func CustomID(action, pagerID string) string {
	return customIDPrefix + ":" + action + ":" + pagerID
}

// ParseCustomID splits a paginator button custom ID. ok is false for IDs
// that do not belong to the paginator.
func ParseCustomID(id string) (action, pagerID string, ok bool) {
	prefix, rest, found := strings.Cut(id, ":")
	if !found || prefix != customIDPrefix {
		return "", "", false
	}
	action, pagerID, found = strings.Cut(rest, ":")
	if !found || pagerID == "" {
		return "", "", false
	}
	switch action {
	case ActionPrevious, ActionNext, ActionStop:
		return action, pagerID, true
	}
	return "", "", false
}

// PaginatorComponents returns the button row for page i of n. Buttons are
// disabled at the edges, or entirely when the paginator has stopped.
func PaginatorComponents(pagerID string, i, n int, stopped bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(ActionPrevious, pagerID),
					Disabled: stopped || i <= 0,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(ActionNext, pagerID),
					Disabled: stopped || i >= n-1,
				},
				discordgo.Button{
					Label:    "✖",
					Style:    discordgo.DangerButton,
					CustomID: CustomID(ActionStop, pagerID),
					Disabled: stopped,
				},
			},
		},
	}
}
