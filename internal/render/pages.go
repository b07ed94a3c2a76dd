package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/usestring/fergun/pkg/wolfram"
)

// Pages is a paged rendering of a successful result.
//
// Pods with a single one-line plain text subpod are collected as inline
// fields of a top embed shown on every page. Every other subpod becomes a
// page of its own showing its image.
type Pages struct {
	fields []*discordgo.MessageEmbedField
	images []imagePage
}

type imagePage struct {
	title string
	text  string
	url   string
	data  []byte
}

// NewPages lays out pods, which must be in display order.
func NewPages(pods []wolfram.Pod) *Pages {
	p := &Pages{}
	for _, pod := range pods {
		if len(pod.SubPods) == 1 && isInline(pod.SubPods[0]) && len(p.fields) < MaxFields {
			p.fields = append(p.fields, &discordgo.MessageEmbedField{
				Name:   fieldName(pod.Title),
				Value:  Truncate(pod.SubPods[0].PlainText, MaxFieldValueLen),
				Inline: true,
			})
			continue
		}
		for _, sub := range pod.SubPods {
			p.images = append(p.images, newImagePage(pod.Title, sub))
		}
	}
	return p
}

func isInline(sub wolfram.SubPod) bool {
	return sub.PlainText != "" && !strings.Contains(sub.PlainText, "\n")
}

func fieldName(title string) string {
	if title == "" {
		return "\u200b"
	}
	return Truncate(title, MaxFieldNameLen)
}

func newImagePage(podTitle string, sub wolfram.SubPod) imagePage {
	page := imagePage{title: podTitle}
	if sub.Title != "" {
		page.title = fmt.Sprintf("%s (%s)", podTitle, sub.Title)
	}
	switch {
	case sub.Image.HasData():
		page.data = sub.Image.Data
	case sub.Image != nil && sub.Image.Src != "":
		page.url = sub.Image.Src
	default:
		page.text = sub.PlainText
	}
	return page
}

// Len returns the number of pages; it is at least one.
func (p *Pages) Len() int {
	return max(1, len(p.images))
}

// Page renders page i (zero-based). Out of range indexes are clamped.
func (p *Pages) Page(i int) Message {
	i = max(0, min(i, p.Len()-1))
	footer := &discordgo.MessageEmbedFooter{
		Text:    fmt.Sprintf("%s | Page %d of %d", ResultsTitle, i+1, p.Len()),
		IconURL: LogoURL,
	}

	if len(p.images) == 0 {
		top := p.topEmbed()
		top.Footer = footer
		return Message{Embeds: []*discordgo.MessageEmbed{top}}
	}

	img := p.images[i]
	embed := &discordgo.MessageEmbed{
		Description: Truncate("**"+img.title+"**", MaxDescriptionLen),
		Color:       Color,
		Footer:      footer,
	}

	var msg Message
	if len(p.fields) > 0 {
		msg.Embeds = append(msg.Embeds, p.topEmbed())
	} else {
		embed.Title = ResultsTitle
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: LogoURL}
	}

	switch {
	case img.data != nil:
		name := fmt.Sprintf("%d.gif", i+1)
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + name}
		msg.Files = []*discordgo.File{{
			Name:        name,
			ContentType: "image/gif",
			Reader:      bytes.NewReader(img.data),
		}}
	case img.url != "":
		embed.Image = &discordgo.MessageEmbedImage{URL: img.url}
	case img.text != "":
		embed.Description = Truncate(embed.Description+"\n"+img.text, MaxDescriptionLen)
	}

	msg.Embeds = append(msg.Embeds, embed)
	return msg
}

func (p *Pages) topEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     ResultsTitle,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: LogoURL},
		Color:     Color,
		Fields:    p.fields,
	}
}
