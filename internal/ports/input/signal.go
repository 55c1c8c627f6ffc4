package input

import (
	"context"

	"riseup/internal/domain/entities"
)

// SignalUseCase receives availability signals raised on card surfaces.
type SignalUseCase interface {
	HandleSignal(ctx context.Context, messageID string, p entities.Participant, signal entities.Signal)
}
