package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
)

const reactorsPageSize = 100

var (
	_ output.Messenger     = (*Messenger)(nil)
	_ output.GuildChannels = (*Messenger)(nil)
)

// Messenger implements the messaging and channel ports on discordgo REST
// calls.
type Messenger struct {
	s *discordgo.Session
}

func NewMessenger(s *discordgo.Session) *Messenger {
	return &Messenger{s: s}
}

func refOf(m *discordgo.Message) entities.MessageRef {
	return entities.MessageRef{ChannelID: m.ChannelID, MessageID: m.ID}
}

func (m *Messenger) Send(ctx context.Context, channelID, content string) (entities.MessageRef, error) {
	msg, err := m.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return entities.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return refOf(msg), nil
}

func (m *Messenger) SendFile(ctx context.Context, channelID, name string, data []byte) (entities.MessageRef, error) {
	msg, err := m.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        name,
			ContentType: "image/png",
			Reader:      bytes.NewReader(data),
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return entities.MessageRef{}, fmt.Errorf("upload file: %w", err)
	}
	if len(msg.Attachments) == 0 {
		return entities.MessageRef{}, errors.New("upload file: no attachment in response")
	}
	ref := refOf(msg)
	ref.AttachmentURL = msg.Attachments[0].URL
	return ref, nil
}

func (m *Messenger) Edit(ctx context.Context, ref entities.MessageRef, content string) error {
	if _, err := m.s.ChannelMessageEdit(ref.ChannelID, ref.MessageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, ref entities.MessageRef) error {
	if err := m.s.ChannelMessageDelete(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (m *Messenger) AddReaction(ctx context.Context, ref entities.MessageRef, sig entities.Signal) error {
	if err := m.s.MessageReactionAdd(ref.ChannelID, ref.MessageID, emojiFor(sig), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add reaction: %w", err)
	}
	return nil
}

func (m *Messenger) RetractReaction(ctx context.Context, ref entities.MessageRef, userID string, sig entities.Signal) error {
	if err := m.s.MessageReactionRemove(ref.ChannelID, ref.MessageID, emojiFor(sig), userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove reaction: %w", err)
	}
	return nil
}

// ListReactors pages through every user who reacted with sig.
func (m *Messenger) ListReactors(ctx context.Context, ref entities.MessageRef, sig entities.Signal) ([]string, error) {
	var ids []string
	after := ""
	for {
		users, err := m.s.MessageReactions(ref.ChannelID, ref.MessageID, emojiFor(sig), reactorsPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list reactions: %w", err)
		}
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if len(users) < reactorsPageSize {
			return ids, nil
		}
		after = users[len(users)-1].ID
	}
}

// EnsureTextChannel returns the guild's text channel called name,
// creating it when missing.
func (m *Messenger) EnsureTextChannel(ctx context.Context, guildID, name string) (string, error) {
	channels, err := m.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}
	if id, ok := findTextChannel(channels, name); ok {
		return id, nil
	}
	ch, err := m.s.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildText, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create channel: %w", err)
	}
	return ch.ID, nil
}

func findTextChannel(channels []*discordgo.Channel, name string) (string, bool) {
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			return ch.ID, true
		}
	}
	return "", false
}
