// Package render turns Wolfram|Alpha results into Discord messages.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/usestring/fergun/pkg/wolfram"
)

// Branding
const (
	LogoURL      = "https://www.wolframalpha.com/_next/static/images/share_3eSzXbxb.png"
	Color        = 0xE74C3C
	ResultsTitle = "Wolfram|Alpha Results"
)

// Discord limits
const (
	MaxChoices        = 25
	MaxChoiceLen      = 100
	MaxFields         = 25
	MaxFieldNameLen   = 256
	MaxFieldValueLen  = 1024
	MaxDescriptionLen = 4096
	MaxContentLen     = 2000
)

// NoResultMessage is sent when the service did not understand the input.
const NoResultMessage = "Wolfram|Alpha doesn't understand your query."

// Message is a single rendered reply.
type Message struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
	Files   []*discordgo.File
}

// Reply is the rendered form of a query result. Exactly one of Message and
// Pages is set.
type Reply struct {
	Message *Message
	Pages   *Pages
}

// Result renders r for Discord.
func Result(r *wolfram.QueryResult) Reply {
	switch o := r.Outcome().(type) {
	case wolfram.RemoteError:
		return Reply{Message: &Message{Content: ErrorText(o)}}
	case wolfram.DidYouMean:
		return Reply{Message: &Message{Content: DidYouMeanText(o.Suggestions)}}
	case wolfram.FutureTopic:
		return Reply{Message: &Message{Embeds: []*discordgo.MessageEmbed{FutureTopicEmbed(o)}}}
	case wolfram.NoResult:
		return Reply{Message: &Message{Content: NoResultMessage}}
	}

	if len(r.Pods) == 0 {
		return Reply{Message: &Message{Content: NoResultMessage}}
	}
	return Reply{Pages: NewPages(r.Pods)}
}

// ErrorText describes an error reported by the service.
func ErrorText(e wolfram.RemoteError) string {
	return fmt.Sprintf("Failed to get the results. Status code: %d. Error message: %s", e.StatusCode, e.Message)
}

// DidYouMeanText lists spelling suggestions as a bulleted list.
func DidYouMeanText(suggestions []string) string {
	var b strings.Builder
	b.WriteString("No results found. Did you mean...")
	for _, s := range suggestions {
		b.WriteString("\n- ")
		b.WriteString(s)
	}
	return Truncate(b.String(), MaxContentLen)
}

// FutureTopicEmbed renders a topic the service does not support yet.
func FutureTopicEmbed(ft wolfram.FutureTopic) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       Truncate(ft.Topic, MaxFieldNameLen),
		Description: Truncate(ft.Message, MaxDescriptionLen),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: LogoURL},
		Color:       Color,
	}
}

// Choices converts autocomplete suggestions into command option choices.
func Choices(suggestions []string) []*discordgo.ApplicationCommandOptionChoice {
	n := min(len(suggestions), MaxChoices)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, n)
	for _, s := range suggestions[:n] {
		s = Truncate(s, MaxChoiceLen)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: s, Value: s})
	}
	return choices
}

// Truncate shortens s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
