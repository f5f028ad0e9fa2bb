package notify

import (
	"context"
	"errors"
	"sort"

	"github.com/bwmarrin/discordgo"

	lerrors "github.com/taejunjeon/leadership/internal/errors"
)

// DiscordConfig configures the Discord notifier.
type DiscordConfig struct {
	Token     string `mapstructure:"discord_token" yaml:"discord_token"`
	ChannelID string `mapstructure:"discord_channel" yaml:"discord_channel"`
}

// Enabled reports whether both token and channel are set.
func (c DiscordConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

const (
	colorHighRisk = 0xE67E22
	colorCritical = 0xC0392B
)

// DiscordNotifier posts alerts as channel embeds.
type DiscordNotifier struct {
	session   embedSender
	channelID string
}

// NewDiscordNotifier opens a bot session for cfg.
func NewDiscordNotifier(cfg DiscordConfig) (*DiscordNotifier, error) {
	if !cfg.Enabled() {
		return nil, errors.New("discord token and channel are required")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{session: session, channelID: cfg.ChannelID}, nil
}

func (n *DiscordNotifier) Notify(ctx context.Context, alert Alert) error {
	_, err := n.session.ChannelMessageSendEmbed(n.channelID, embedFor(alert), discordgo.WithContext(ctx))
	if err != nil {
		return lerrors.NewTransientError(err, "discord delivery failed")
	}
	return nil
}

func embedFor(alert Alert) *discordgo.MessageEmbed {
	color := colorHighRisk
	if alert.Kind == KindCriticalAnomaly {
		color = colorCritical
	}
	names := make([]string, 0, len(alert.Fields))
	for name := range alert.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]*discordgo.MessageEmbedField, 0, len(names)+1)
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Subject", Value: alert.SubjectID, Inline: true})
	for _, name := range names {
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: alert.Fields[name], Inline: true})
	}
	embed := &discordgo.MessageEmbed{
		Title:       alert.Title,
		Description: alert.Message,
		Color:       color,
		Fields:      fields,
	}
	if !alert.At.IsZero() {
		embed.Timestamp = alert.At.Format("2006-01-02T15:04:05Z07:00")
	}
	return embed
}
