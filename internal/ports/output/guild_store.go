package output

import (
	"context"

	"riseup/internal/domain/entities"
)

// GuildStore persists per-guild configuration. Get returns
// domain.ErrGuildNotConfigured when the guild has no entry.
type GuildStore interface {
	Get(ctx context.Context, guildID string) (entities.GuildConfig, error)
	Put(ctx context.Context, guildID string, cfg entities.GuildConfig) error
}

// GameCatalog resolves the game key typed by a user.
type GameCatalog interface {
	// Lookup never fails: unknown keys yield an activity named after the key.
	Lookup(key string) entities.Activity
}
