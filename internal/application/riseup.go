package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/ports/input"
	"riseup/internal/ports/output"
	pkgdiscord "riseup/pkg/discord"
)

// RiseUpChannelName is the channel /force setup binds the guild to.
const RiseUpChannelName = "rise-ups"

var _ input.RiseUpUseCase = (*RiseUpService)(nil)

type RiseUpService struct {
	registry *Registry
	env      CardEnv
	guilds   output.GuildStore
	channels output.GuildChannels
	catalog  output.GameCatalog
	location *time.Location
}

func NewRiseUpService(
	registry *Registry,
	env CardEnv,
	guilds output.GuildStore,
	channels output.GuildChannels,
	catalog output.GameCatalog,
	location *time.Location,
) *RiseUpService {
	if location == nil {
		location = time.UTC
	}
	return &RiseUpService{
		registry: registry,
		env:      env.withDefaults(),
		guilds:   guilds,
		channels: channels,
		catalog:  catalog,
		location: location,
	}
}

func (s *RiseUpService) now() time.Time {
	return s.env.Scheduler.Now().In(s.location)
}

func (s *RiseUpService) activity(key string) entities.Activity {
	key = strings.TrimSpace(key)
	if s.catalog == nil {
		return entities.Activity{Key: key, Name: key}
	}
	return s.catalog.Lookup(key)
}

func (s *RiseUpService) Create(ctx context.Context, req input.CreateRequest) (string, error) {
	at, err := pkgdiscord.ParseRiseTime(req.TimeText, s.now())
	if err != nil {
		return "", err
	}

	var notice string
	cfg, err := s.guilds.Get(ctx, req.GuildID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrGuildNotConfigured):
		notice = s.env.Text.Msg(keyGuildNotConfigured, nil)
	default:
		return "", domain.Collaborator("load guild config", err)
	}

	card, err := NewCard(s.env, CardParams{
		GuildID:          req.GuildID,
		ChannelID:        req.ChannelID,
		ForwardChannelID: cfg.RiseUpChannelID,
		Owner:            req.Owner,
		Activity:         s.activity(req.GameKey),
		ScheduledAt:      at,
		Capacity:         req.Slots,
	})
	if err != nil {
		return "", err
	}
	if err := card.Publish(ctx); err != nil {
		return "", err
	}
	ev, err := s.registry.Activate(card)
	if err != nil {
		card.abandon(context.WithoutCancel(ctx))
		return "", err
	}
	if err := ev.Finish(ctx); err != nil {
		log.Error().Err(err).Str("card", ev.Card().ID()).Msg("❌ Failed to summarize replaced rise up")
	}
	if err := card.OfferReactions(ctx); err != nil && !errors.Is(err, domain.ErrStaleCard) {
		log.Error().Err(err).Str("card", card.ID()).Msg("❌ Failed to add declaration reactions")
	}
	log.Info().Str("card", card.ID()).Str("owner", req.Owner.ID).Str("game", card.activity.Name).Msg("✅ rise up created")

	reply := s.env.Text.Msg(keyCreated, map[string]any{
		"Game": card.activity.Name,
		"Time": pkgdiscord.FormatShortTime(at),
	})
	if notice != "" {
		reply += "\n" + notice
	}
	return reply, nil
}

func (s *RiseUpService) ownedCard(ownerID string) (*Card, error) {
	card, ok := s.registry.LookupByOwner(ownerID)
	if !ok {
		return nil, domain.ErrNoActiveCard
	}
	return card, nil
}

func (s *RiseUpService) Reschedule(ctx context.Context, ownerID, timeText string) (string, error) {
	card, err := s.ownedCard(ownerID)
	if err != nil {
		return "", err
	}
	at, err := pkgdiscord.ParseRiseTime(timeText, s.now())
	if err != nil {
		return "", err
	}
	if err := card.Reschedule(ctx, at); err != nil {
		return "", err
	}
	return s.env.Text.Msg(keyRescheduled, map[string]any{"Time": pkgdiscord.FormatShortTime(at)}), nil
}

func (s *RiseUpService) Cancel(ctx context.Context, ownerID string) (string, error) {
	card, err := s.ownedCard(ownerID)
	if err != nil {
		return "", err
	}
	if err := card.Cancel(ctx); err != nil {
		return "", err
	}
	return s.env.Text.Msg(keyCancelled, nil), nil
}

func (s *RiseUpService) Close(ctx context.Context, ownerID string) (string, error) {
	card, err := s.ownedCard(ownerID)
	if err != nil {
		return "", err
	}
	if err := card.Close(ctx); err != nil {
		return "", err
	}
	return s.env.Text.Msg(keyClosed, nil), nil
}

// Give transfers the caller's card to target, which must not own one.
func (s *RiseUpService) Give(ctx context.Context, ownerID string, target entities.Participant) (string, error) {
	card, err := s.ownedCard(ownerID)
	if err != nil {
		return "", err
	}
	if err := s.transfer(ctx, card, target, TransferGive); err != nil {
		return "", err
	}
	return s.env.Text.Msg(keyGiven, map[string]any{"User": pkgdiscord.Mention(target.ID)}), nil
}

// Usurp takes target's card for caller. The caller's own card, if any,
// is closed.
func (s *RiseUpService) Usurp(ctx context.Context, caller, target entities.Participant) (string, error) {
	card, ok := s.registry.LookupByOwner(target.ID)
	if !ok {
		return "", domain.ErrTargetHasNoCard
	}
	if err := s.transfer(ctx, card, caller, TransferUsurp); err != nil {
		return "", err
	}
	return s.env.Text.Msg(keyUsurped, map[string]any{"User": pkgdiscord.Mention(target.ID)}), nil
}

func (s *RiseUpService) transfer(ctx context.Context, card *Card, to entities.Participant, mode TransferMode) error {
	ev, err := s.registry.Transfer(card, to, mode)
	if err != nil {
		return err
	}
	if err := ev.Finish(ctx); err != nil {
		log.Error().Err(err).Str("card", ev.Card().ID()).Msg("❌ Failed to summarize usurped rise up")
	}
	return card.Refresh(ctx)
}

// Setup binds the guild to its rise-up channel, creating it if needed.
func (s *RiseUpService) Setup(ctx context.Context, guildID string) (string, error) {
	if s.channels == nil {
		return "", domain.Collaborator("setup guild", errors.New("no channel manager"))
	}
	channelID, err := s.channels.EnsureTextChannel(ctx, guildID, RiseUpChannelName)
	if err != nil {
		return "", domain.Collaborator("ensure rise-up channel", err)
	}
	if err := s.guilds.Put(ctx, guildID, entities.GuildConfig{RiseUpChannelID: channelID}); err != nil {
		return "", domain.Collaborator("save guild config", err)
	}
	log.Info().Str("guild", guildID).Str("channel", channelID).Msg("✅ guild configured")
	return s.env.Text.Msg(keySetup, map[string]any{"Channel": fmt.Sprintf("<#%s>", channelID)}), nil
}
