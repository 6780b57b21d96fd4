package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"nostrcord/internal/domain"
)

// Bot is the channel endpoint: it reads messages from one configured
// channel and writes forwarded content back to it.
type Bot struct {
	session   *discordgo.Session
	channelID string
	log       *slog.Logger
}

var _ domain.ChannelClient = (*Bot)(nil)

func New(token, channelID string, log *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return &Bot{session: session, channelID: channelID, log: log.With("component", "discord")}, nil
}

// Run opens the gateway connection and delivers channel messages until ctx
// is cancelled. Bot authors, other channels and non-regular message types
// are filtered out before they reach the bridge.
func (b *Bot) Run(ctx context.Context, inbound chan<- domain.ChannelMessage) error {
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.log.Info("connected to discord", "user", r.User.Username)
	})
	b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != b.channelID || m.Author == nil || m.Author.Bot {
			return
		}
		if m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
			return
		}
		select {
		case inbound <- domain.ChannelMessage{Author: m.Author.Username, Content: m.Content}:
		case <-ctx.Done():
		}
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	<-ctx.Done()
	return b.session.Close()
}

// Send posts content to the configured channel.
func (b *Bot) Send(_ context.Context, content string) error {
	if _, err := b.session.ChannelMessageSend(b.channelID, content); err != nil {
		return fmt.Errorf("sending to channel %s: %w", b.channelID, err)
	}
	return nil
}
