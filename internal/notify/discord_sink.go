package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/abeleng/shemeta/internal/event"
)

// webhookExecutor is the part of *discordgo.Session the sink needs
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSink posts notifications to a Discord channel webhook, typically an
// operations channel watching marketplace activity.
type DiscordSink struct {
	session   webhookExecutor
	webhookID string
	token     string
}

// NewDiscordSink creates a sink from a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
func NewDiscordSink(webhookURL string) (*DiscordSink, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// webhook execution needs no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return &DiscordSink{session: session, webhookID: id, token: token}, nil
}

// ParseWebhookURL extracts the webhook id and token
func ParseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", ErrMsgWebhookURL, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%s: %q", ErrMsgWebhookURL, raw)
}

func (s *DiscordSink) Name() string { return "discord" }

func (s *DiscordSink) Deliver(_ context.Context, n Notification) error {
	params := &discordgo.WebhookParams{
		Username: DiscordUsername,
		Embeds:   []*discordgo.MessageEmbed{embed(n)},
	}
	if _, err := s.session.WebhookExecute(s.webhookID, s.token, false, params); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWebhookPost, err)
	}
	return nil
}

func embed(n Notification) *discordgo.MessageEmbed {
	color := DiscordColorProposed
	switch n.Type {
	case event.OfferAccepted:
		color = DiscordColorAccepted
	case event.OfferDeclined:
		color = DiscordColorDeclined
	case event.OfferExpired:
		color = DiscordColorExpired
	}
	return &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Message,
		Color:       color,
		Timestamp:   n.At.Format("2006-01-02T15:04:05Z07:00"),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Offer", Value: n.Offer.OfferID, Inline: true},
			{Name: "Requirement", Value: n.Offer.RequirementID, Inline: true},
			{Name: "State", Value: string(n.Offer.State), Inline: true},
		},
	}
}
