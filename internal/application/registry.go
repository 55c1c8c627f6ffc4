package application

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
)

// TransferMode selects how a transfer treats a target that already owns
// an Active card.
type TransferMode int

const (
	// TransferGive fails with domain.ErrOwnershipConflict.
	TransferGive TransferMode = iota
	// TransferUsurp closes the target's card and takes its slot.
	TransferUsurp
)

// Registry maps owners to their single Active card and surface messages
// back to owners. Every directory mutation happens under mu; the lock
// order is registry then card.
type Registry struct {
	mu    sync.Mutex
	dir   output.Directory
	cards map[string]*Card
}

func NewRegistry(dir output.Directory) *Registry {
	return &Registry{dir: dir, cards: make(map[string]*Card)}
}

// Eviction is a card closed by the registry while making room for
// another. Its summary I/O runs outside the registry lock, via Finish.
type Eviction struct {
	card *Card
	snap entities.CardSnapshot
}

// Card returns the evicted card.
func (e *Eviction) Card() *Card {
	if e == nil {
		return nil
	}
	return e.card
}

// Finish publishes the evicted card's summary. A nil Eviction is a no-op.
func (e *Eviction) Finish(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.card.finishClose(ctx, e.snap)
}

// RegisterOwner maps ownerID to c, dropping any previous mapping. The
// caller is responsible for closing an evicted card.
func (r *Registry) RegisterOwner(ownerID string, c *Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerOwnerLocked(ownerID, c)
}

func (r *Registry) LookupByOwner(ownerID string) (*Card, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupOwnerLocked(ownerID)
}

func (r *Registry) RegisterSurface(messageID, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dir.PutSurface(messageID, ownerID)
}

func (r *Registry) LookupByMessage(messageID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dir.SurfaceOwner(messageID)
}

// CardForMessage resolves a surface message to its owner's card in one
// step, so a concurrent transfer cannot split the lookup.
func (r *Registry) CardForMessage(messageID string) (*Card, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ownerID, ok := r.dir.SurfaceOwner(messageID)
	if !ok {
		return nil, false
	}
	return r.lookupOwnerLocked(ownerID)
}

// Unregister removes the owner's card and every surface mapped to it.
func (r *Registry) Unregister(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregisterLocked(ownerID)
}

func (r *Registry) registerOwnerLocked(ownerID string, c *Card) {
	if prev, ok := r.dir.Owner(ownerID); ok && prev != c.id {
		delete(r.cards, prev)
	}
	r.dir.PutOwner(ownerID, c.id)
	r.cards[c.id] = c
}

func (r *Registry) lookupOwnerLocked(ownerID string) (*Card, bool) {
	id, ok := r.dir.Owner(ownerID)
	if !ok {
		return nil, false
	}
	c, ok := r.cards[id]
	return c, ok
}

func (r *Registry) unregisterLocked(ownerID string) {
	if id, ok := r.dir.Owner(ownerID); ok {
		delete(r.cards, id)
	}
	r.dir.DeleteOwner(ownerID)
	if dropped := r.dir.DeleteSurfaces(ownerID); len(dropped) > 0 {
		log.Debug().Str("owner", ownerID).Strs("messages", dropped).Msg("surfaces unregistered")
	}
}

// Activate makes a published Draft card its owner's Active card. A
// previous Active card of the same owner is closed first and returned as
// an Eviction.
func (r *Registry) Activate(c *Card) (*Eviction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner := c.Owner()
	var ev *Eviction
	if prev, ok := r.lookupOwnerLocked(owner.ID); ok && prev != c {
		if snap, err := prev.terminate(entities.StateClosed, 0); err == nil {
			ev = &Eviction{card: prev, snap: snap}
			log.Info().Str("card", prev.id).Str("owner", owner.ID).Msg("✅ rise up replaced by a newer one")
		}
		r.unregisterLocked(owner.ID)
	}

	mirrors, err := c.activate(r)
	if err != nil {
		return ev, err
	}
	r.registerOwnerLocked(owner.ID, c)
	for _, ref := range mirrors {
		r.dir.PutSurface(ref.MessageID, owner.ID)
	}
	return ev, nil
}

// Release unregisters c if it is still the card mapped to its owner.
func (r *Registry) Release(c *Card) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner := c.Owner()
	if id, ok := r.dir.Owner(owner.ID); ok && id == c.id {
		r.unregisterLocked(owner.ID)
	}
}

// Transfer hands c over to newOwner in one directory rewrite: the old
// owner entry is removed, the new one installed and both surfaces
// repointed. The caller re-renders c afterwards.
func (r *Registry) Transfer(c *Card, newOwner entities.Participant, mode TransferMode) (*Eviction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := c.Owner()
	if old.ID == newOwner.ID {
		return nil, domain.ErrSameOwner
	}
	if id, ok := r.dir.Owner(old.ID); !ok || id != c.id {
		return nil, domain.ErrStaleCard
	}

	target, hasTarget := r.lookupOwnerLocked(newOwner.ID)
	live := hasTarget && target.State() == entities.StateActive
	if live && mode == TransferGive {
		return nil, domain.ErrOwnershipConflict
	}
	if err := c.reassign(newOwner); err != nil {
		return nil, err
	}

	var ev *Eviction
	if hasTarget {
		if snap, err := target.terminate(entities.StateClosed, 0); err == nil {
			ev = &Eviction{card: target, snap: snap}
			log.Info().Str("card", target.id).Str("owner", newOwner.ID).Msg("✅ rise up usurped")
		}
		r.unregisterLocked(newOwner.ID)
	}

	r.unregisterLocked(old.ID)
	r.registerOwnerLocked(newOwner.ID, c)
	for _, ref := range c.Surfaces().Mirrors() {
		r.dir.PutSurface(ref.MessageID, newOwner.ID)
	}
	log.Info().Str("card", c.id).Str("from", old.ID).Str("to", newOwner.ID).Msg("✅ rise up transferred")
	return ev, nil
}
