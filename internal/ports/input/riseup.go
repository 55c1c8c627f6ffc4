package input

import (
	"context"

	"riseup/internal/domain/entities"
)

// CreateRequest carries the /rise up arguments.
type CreateRequest struct {
	GuildID   string
	ChannelID string
	Owner     entities.Participant
	GameKey   string
	TimeText  string
	Slots     int
}

// RiseUpUseCase is the command surface. Every method returns the reply to
// show the invoking user, or a domain error.
type RiseUpUseCase interface {
	Create(ctx context.Context, req CreateRequest) (string, error)
	Reschedule(ctx context.Context, ownerID, timeText string) (string, error)
	Cancel(ctx context.Context, ownerID string) (string, error)
	Close(ctx context.Context, ownerID string) (string, error)
	Give(ctx context.Context, ownerID string, target entities.Participant) (string, error)
	Usurp(ctx context.Context, caller, target entities.Participant) (string, error)
	Setup(ctx context.Context, guildID string) (string, error)
}
