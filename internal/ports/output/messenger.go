package output

import (
	"context"

	"riseup/internal/domain/entities"
)

// Messenger is the chat platform as seen by the card core. Every call may
// fail; the core never retries.
type Messenger interface {
	Send(ctx context.Context, channelID, content string) (entities.MessageRef, error)
	// SendFile uploads data as an attachment; the returned ref carries the
	// attachment URL.
	SendFile(ctx context.Context, channelID, name string, data []byte) (entities.MessageRef, error)
	Edit(ctx context.Context, ref entities.MessageRef, content string) error
	Delete(ctx context.Context, ref entities.MessageRef) error

	AddReaction(ctx context.Context, ref entities.MessageRef, signal entities.Signal) error
	RetractReaction(ctx context.Context, ref entities.MessageRef, userID string, signal entities.Signal) error
	ListReactors(ctx context.Context, ref entities.MessageRef, signal entities.Signal) ([]string, error)
}

// GuildChannels manages guild-level channels.
type GuildChannels interface {
	// EnsureTextChannel returns the ID of the text channel called name,
	// creating it if the guild has none.
	EnsureTextChannel(ctx context.Context, guildID, name string) (string, error)
}
