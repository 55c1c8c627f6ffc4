package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/domain/ledger"
	"riseup/internal/ports/output"
)

const (
	defaultCloseDelay = 30 * time.Minute
	defaultCacheTTL   = 60 * time.Second
	defaultTimeout    = 10 * time.Second

	cardFileName = "rise_up.png"
)

// CardEnv holds the collaborators and settings shared by every card.
type CardEnv struct {
	Messenger output.Messenger
	Renderer  output.Renderer
	Scheduler output.Scheduler
	Text      output.Localizer

	// CacheChannelID receives the rendered artifacts whose URLs the
	// surfaces display.
	CacheChannelID string
	CloseDelay     time.Duration
	CacheTTL       time.Duration
	// Timeout bounds the I/O of timer-driven work.
	Timeout time.Duration
}

func (e CardEnv) withDefaults() CardEnv {
	if e.CloseDelay <= 0 {
		e.CloseDelay = defaultCloseDelay
	}
	if e.CacheTTL <= 0 {
		e.CacheTTL = defaultCacheTTL
	}
	if e.Timeout <= 0 {
		e.Timeout = defaultTimeout
	}
	return e
}

// CardParams describes a card to create.
type CardParams struct {
	GuildID   string
	ChannelID string
	// ForwardChannelID is the guild's rise-up channel; empty means the
	// card lives on its origin surface only.
	ForwardChannelID string
	Owner            entities.Participant
	Activity         entities.Activity
	ScheduledAt      time.Time
	Capacity         int
}

// Card is one rise up and its lifecycle. mu guards the mutable state;
// renderMu orders publications of the surfaces; signalMu serializes
// reaction reconciliation. A card never holds mu while calling into the
// registry.
type Card struct {
	env              CardEnv
	id               string
	guildID          string
	channelID        string
	forwardChannelID string
	activity         entities.Activity
	capacity         int

	signalMu sync.Mutex
	renderMu sync.Mutex

	mu              sync.Mutex
	owner           entities.Participant
	scheduledAt     time.Time
	state           entities.State
	ledger          *ledger.Ledger
	surfaces        entities.Surfaces
	notifyTimer     output.Handle
	closeTimer      output.Handle
	timerGen        uint64
	version         uint64
	renderedVersion uint64
	registry        *Registry
}

// NewCard validates p and returns a Draft card.
func NewCard(env CardEnv, p CardParams) (*Card, error) {
	if strings.TrimSpace(p.Owner.ID) == "" {
		return nil, domain.ErrMissingOwner
	}
	if strings.TrimSpace(p.Activity.Name) == "" {
		return nil, domain.ErrMissingActivity
	}
	if p.Capacity <= 0 {
		return nil, domain.ErrInvalidSlots
	}
	if !p.ScheduledAt.After(env.Scheduler.Now()) {
		return nil, domain.ErrTimeNotInFuture
	}
	forward := p.ForwardChannelID
	if forward == p.ChannelID {
		forward = ""
	}
	return &Card{
		env:              env.withDefaults(),
		id:               uuid.NewString(),
		guildID:          p.GuildID,
		channelID:        p.ChannelID,
		forwardChannelID: forward,
		activity:         p.Activity,
		capacity:         p.Capacity,
		owner:            p.Owner,
		scheduledAt:      p.ScheduledAt,
		state:            entities.StateDraft,
		ledger:           ledger.New(),
		version:          1,
	}, nil
}

func (c *Card) ID() string { return c.id }

func (c *Card) Owner() entities.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

func (c *Card) State() entities.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Card) ScheduledAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scheduledAt
}

func (c *Card) Surfaces() entities.Surfaces {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaces
}

func (c *Card) Snapshot() entities.CardSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Card) snapshotLocked() entities.CardSnapshot {
	return entities.CardSnapshot{
		ID:          c.id,
		GuildID:     c.guildID,
		Owner:       c.owner,
		Activity:    c.activity,
		ScheduledAt: c.scheduledAt,
		Capacity:    c.capacity,
		State:       c.state,
		Version:     c.version,
		Attending:   c.ledger.SortedView(ledger.Attending),
		Unavailable: c.ledger.SortedView(ledger.HasStatus(entities.StatusUnavailable)),
	}
}

// Publish renders the card and sends its surfaces: the artifact to the
// cache channel, then the origin and the forwarded messages. On failure
// every message already sent is deleted and the card stays Draft.
// Reactions are offered only once the card is Active, see OfferReactions.
func (c *Card) Publish(ctx context.Context) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	if c.state != entities.StateDraft {
		c.mu.Unlock()
		return domain.ErrStaleCard
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	var sent []entities.MessageRef
	fail := func(op string, err error) error {
		c.deleteAll(context.WithoutCancel(ctx), sent)
		return domain.Collaborator(op, err)
	}

	img, err := c.env.Renderer.Render(ctx, snap)
	if err != nil {
		return fail("render card", err)
	}
	cache, err := c.env.Messenger.SendFile(ctx, c.env.CacheChannelID, cardFileName, img)
	if err != nil {
		return fail("upload card", err)
	}
	sent = append(sent, cache)

	surfaces := entities.Surfaces{Cache: &cache}
	origin, err := c.env.Messenger.Send(ctx, c.channelID, cache.AttachmentURL)
	if err != nil {
		return fail("send origin surface", err)
	}
	sent = append(sent, origin)
	surfaces.Origin = &origin

	if c.forwardChannelID != "" {
		fwd, err := c.env.Messenger.Send(ctx, c.forwardChannelID, cache.AttachmentURL)
		if err != nil {
			return fail("send forwarded surface", err)
		}
		sent = append(sent, fwd)
		surfaces.Forwarded = &fwd
	}

	c.mu.Lock()
	c.surfaces = surfaces
	c.renderedVersion = snap.Version
	c.mu.Unlock()
	return nil
}

// activate moves a published Draft card to Active and arms its timers.
// Called by the registry under its lock.
func (c *Card) activate(r *Registry) ([]entities.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != entities.StateDraft {
		return nil, domain.ErrStaleCard
	}
	c.state = entities.StateActive
	c.registry = r
	c.armLocked()
	return c.surfaces.Mirrors(), nil
}

// OfferReactions adds the declaration reactions to every mirror of an
// Active card. The surfaces are registered by then, so a member clicking
// a reaction as soon as it appears is reconciled.
func (c *Card) OfferReactions(ctx context.Context) error {
	c.mu.Lock()
	if c.state != entities.StateActive {
		c.mu.Unlock()
		return domain.ErrStaleCard
	}
	mirrors := c.surfaces.Mirrors()
	c.mu.Unlock()

	for _, ref := range mirrors {
		for _, sig := range entities.DeclarationSignals {
			if err := c.env.Messenger.AddReaction(ctx, ref, sig); err != nil {
				return domain.Collaborator("add reaction", err)
			}
		}
	}
	return nil
}

// abandon discards a published card that never became Active.
func (c *Card) abandon(ctx context.Context) {
	c.mu.Lock()
	if c.state != entities.StateDraft {
		c.mu.Unlock()
		return
	}
	c.state = entities.StateCancelled
	surfaces := c.surfaces
	c.mu.Unlock()
	c.deleteSurfaces(ctx, surfaces)
}

func (c *Card) armLocked() {
	c.timerGen++
	gen := c.timerGen
	now := c.env.Scheduler.Now()
	c.notifyTimer = c.env.Scheduler.Schedule(c.scheduledAt.Sub(now), func() { c.onNotifyFired(gen) })
	c.closeTimer = c.env.Scheduler.Schedule(c.scheduledAt.Add(c.env.CloseDelay).Sub(now), func() { c.onCloseFired(gen) })
}

func (c *Card) disarmLocked() {
	if c.notifyTimer != nil {
		c.notifyTimer.Cancel()
		c.notifyTimer = nil
	}
	if c.closeTimer != nil {
		c.closeTimer.Cancel()
		c.closeTimer = nil
	}
	c.timerGen++
}

// terminate moves an Active card to the terminal state to. A non-zero gen
// only matches the timer generation that armed the caller.
func (c *Card) terminate(to entities.State, gen uint64) (entities.CardSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != entities.StateActive {
		return entities.CardSnapshot{}, domain.ErrStaleCard
	}
	if gen != 0 && gen != c.timerGen {
		return entities.CardSnapshot{}, domain.ErrStaleCard
	}
	c.disarmLocked()
	c.state = to
	c.version++
	return c.snapshotLocked(), nil
}

// reassign changes the owner of an Active card. Called by the registry
// under its lock.
func (c *Card) reassign(owner entities.Participant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != entities.StateActive {
		return domain.ErrStaleCard
	}
	c.owner = owner
	c.version++
	return nil
}

func (c *Card) release() {
	c.mu.Lock()
	r := c.registry
	c.mu.Unlock()
	if r != nil {
		r.Release(c)
	}
}

// Close ends the card: timers are cancelled, the card is deregistered and
// its surfaces are turned into a plain-text summary.
func (c *Card) Close(ctx context.Context) error {
	return c.close(ctx, 0)
}

func (c *Card) close(ctx context.Context, gen uint64) error {
	snap, err := c.terminate(entities.StateClosed, gen)
	if err != nil {
		return err
	}
	c.release()
	log.Info().Str("card", c.id).Str("owner", snap.Owner.ID).Msg("✅ rise up closed")
	return c.finishClose(ctx, snap)
}

func (c *Card) finishClose(ctx context.Context, snap entities.CardSnapshot) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	surfaces := c.Surfaces()
	summary := c.summaryText(snap)
	var errs []error
	for _, ref := range surfaces.Mirrors() {
		if err := c.env.Messenger.Edit(ctx, ref, summary); err != nil {
			errs = append(errs, err)
		}
	}
	if surfaces.Cache != nil {
		if err := c.env.Messenger.Delete(ctx, *surfaces.Cache); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return domain.Collaborator("summarize card", err)
	}
	return nil
}

// Cancel ends the card and deletes every surface.
func (c *Card) Cancel(ctx context.Context) error {
	snap, err := c.terminate(entities.StateCancelled, 0)
	if err != nil {
		return err
	}
	c.release()
	log.Info().Str("card", c.id).Str("owner", snap.Owner.ID).Msg("✅ rise up cancelled")

	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if err := c.deleteSurfaces(ctx, c.Surfaces()); err != nil {
		return domain.Collaborator("delete card surfaces", err)
	}
	return nil
}

// Reschedule moves the card to at and re-arms both timers. A time that is
// not strictly in the future changes nothing.
func (c *Card) Reschedule(ctx context.Context, at time.Time) error {
	c.mu.Lock()
	if c.state != entities.StateActive {
		c.mu.Unlock()
		return domain.ErrStaleCard
	}
	if !at.After(c.env.Scheduler.Now()) {
		c.mu.Unlock()
		return domain.ErrTimeNotInFuture
	}
	c.disarmLocked()
	c.scheduledAt = at
	c.armLocked()
	c.version++
	c.mu.Unlock()

	log.Info().Str("card", c.id).Time("at", at).Msg("⏰ rise up rescheduled")
	return c.Refresh(ctx)
}

// ApplySignal records a declaration, or removes the participant's entry
// for SignalRetract. It reports whether the ledger changed.
func (c *Card) ApplySignal(p entities.Participant, signal entities.Signal, now time.Time) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != entities.StateActive {
		return false, domain.ErrStaleCard
	}
	var changed bool
	if status, ok := signal.Status(); ok {
		changed = c.ledger.Upsert(p, status, now)
	} else if signal == entities.SignalRetract {
		changed = c.ledger.Remove(p.ID)
	}
	if changed {
		c.version++
	}
	return changed, nil
}

// Refresh re-renders the card and points its surfaces at the new
// artifact. Timers are left alone. Renders older than the last published
// one are skipped, and the superseded artifact is deleted after CacheTTL.
func (c *Card) Refresh(ctx context.Context) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	if c.state != entities.StateActive {
		c.mu.Unlock()
		return domain.ErrStaleCard
	}
	if c.version <= c.renderedVersion {
		c.mu.Unlock()
		return nil
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	img, err := c.env.Renderer.Render(ctx, snap)
	if err != nil {
		return domain.Collaborator("render card", err)
	}
	cache, err := c.env.Messenger.SendFile(ctx, c.env.CacheChannelID, cardFileName, img)
	if err != nil {
		return domain.Collaborator("upload card", err)
	}

	c.mu.Lock()
	if c.state != entities.StateActive {
		c.mu.Unlock()
		if err := c.env.Messenger.Delete(context.WithoutCancel(ctx), cache); err != nil {
			log.Error().Err(err).Str("card", c.id).Msg("❌ Failed to delete orphan artifact")
		}
		return domain.ErrStaleCard
	}
	previous := c.surfaces.Cache
	c.surfaces.Cache = &cache
	c.renderedVersion = snap.Version
	mirrors := c.surfaces.Mirrors()
	c.mu.Unlock()

	if previous != nil {
		c.expire(*previous)
	}

	var errs []error
	for _, ref := range mirrors {
		if err := c.env.Messenger.Edit(ctx, ref, cache.AttachmentURL); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return domain.Collaborator("edit card surfaces", err)
	}
	return nil
}

// expire deletes a superseded artifact once CacheTTL has elapsed, so
// clients still showing it keep a valid URL for a while.
func (c *Card) expire(ref entities.MessageRef) {
	c.env.Scheduler.Schedule(c.env.CacheTTL, func() {
		ctx, cancel := c.callbackContext()
		defer cancel()
		if err := c.env.Messenger.Delete(ctx, ref); err != nil {
			log.Error().Err(err).Str("card", c.id).Str("message", ref.MessageID).Msg("❌ Failed to delete expired artifact")
		}
	})
}

func (c *Card) onNotifyFired(gen uint64) {
	c.mu.Lock()
	if c.state != entities.StateActive || gen != c.timerGen {
		c.mu.Unlock()
		log.Debug().Str("card", c.id).Msg("⏰ stale reminder timer, ignoring")
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	ctx, cancel := c.callbackContext()
	defer cancel()
	if _, err := c.env.Messenger.Send(ctx, c.channelID, c.reminderText(snap)); err != nil {
		log.Error().Err(err).Str("card", c.id).Msg("❌ Failed to send reminder")
		return
	}
	log.Info().Str("card", c.id).Int("attending", len(snap.Attending)).Msg("⏰ reminder sent")
}

func (c *Card) onCloseFired(gen uint64) {
	ctx, cancel := c.callbackContext()
	defer cancel()
	err := c.close(ctx, gen)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaleCard):
		log.Debug().Str("card", c.id).Msg("⏰ stale close timer, ignoring")
	default:
		log.Error().Err(err).Str("card", c.id).Msg("❌ Failed to close rise up")
	}
}

func (c *Card) callbackContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.env.Timeout)
}

func (c *Card) deleteSurfaces(ctx context.Context, s entities.Surfaces) error {
	refs := s.Mirrors()
	if s.Cache != nil {
		refs = append(refs, *s.Cache)
	}
	return c.deleteAll(ctx, refs)
}

func (c *Card) deleteAll(ctx context.Context, refs []entities.MessageRef) error {
	var errs []error
	for _, ref := range refs {
		if err := c.env.Messenger.Delete(ctx, ref); err != nil {
			log.Error().Err(err).Str("card", c.id).Str("message", ref.MessageID).Msg("❌ Failed to delete message")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
