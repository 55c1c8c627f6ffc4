package memory

import (
	"context"
	"sync"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
)

var _ output.GuildStore = (*GuildStore)(nil)

// GuildStore keeps guild configuration in memory.
type GuildStore struct {
	mu     sync.RWMutex
	guilds map[string]entities.GuildConfig
}

func NewGuildStore() *GuildStore {
	return &GuildStore{guilds: make(map[string]entities.GuildConfig)}
}

func (s *GuildStore) Get(_ context.Context, guildID string) (entities.GuildConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.guilds[guildID]
	if !ok {
		return entities.GuildConfig{}, domain.ErrGuildNotConfigured
	}
	return cfg, nil
}

func (s *GuildStore) Put(_ context.Context, guildID string, cfg entities.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guilds[guildID] = cfg
	return nil
}
