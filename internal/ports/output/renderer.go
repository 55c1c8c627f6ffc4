package output

import (
	"context"

	"riseup/internal/domain/entities"
)

// Renderer turns a card snapshot into an image. It must not retain or
// mutate the snapshot.
type Renderer interface {
	Render(ctx context.Context, card entities.CardSnapshot) ([]byte, error)
}
