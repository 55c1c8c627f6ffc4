package application

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog/log"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/ports/input"
	"riseup/internal/ports/output"
)

var _ input.SignalUseCase = (*Reconciler)(nil)

// Reconciler turns reactions raised on either surface of a card into
// ledger updates. A participant keeps at most one live declaration per
// card: raising one retracts the others on both surfaces.
type Reconciler struct {
	registry  *Registry
	messenger output.Messenger
	scheduler output.Scheduler
}

func NewReconciler(registry *Registry, messenger output.Messenger, scheduler output.Scheduler) *Reconciler {
	return &Reconciler{registry: registry, messenger: messenger, scheduler: scheduler}
}

// HandleSignal reconciles one signal. Signals for unknown or finished
// cards are dropped.
func (rc *Reconciler) HandleSignal(ctx context.Context, messageID string, p entities.Participant, signal entities.Signal) {
	err := rc.Reconcile(ctx, messageID, p, signal)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaleCard), errors.Is(err, domain.ErrNoActiveCard):
		log.Debug().Str("message", messageID).Str("user", p.ID).Msg("dropping signal for inactive rise up")
	default:
		log.Error().Err(err).Str("message", messageID).Str("user", p.ID).Str("signal", string(signal)).Msg("❌ Failed to reconcile signal")
	}
}

// Reconcile is HandleSignal with the error reported.
func (rc *Reconciler) Reconcile(ctx context.Context, messageID string, p entities.Participant, signal entities.Signal) error {
	card, ok := rc.registry.CardForMessage(messageID)
	if !ok {
		return domain.ErrNoActiveCard
	}

	card.signalMu.Lock()
	defer card.signalMu.Unlock()

	if card.State() != entities.StateActive {
		return domain.ErrStaleCard
	}
	surfaces := card.Surfaces()

	var changed bool
	var err error
	switch {
	case signal == entities.SignalRetract:
		held, herr := rc.heldDeclarations(ctx, surfaces, p.ID)
		if herr != nil {
			return herr
		}
		if len(held) > 0 {
			return nil
		}
		changed, err = card.ApplySignal(p, entities.SignalRetract, rc.scheduler.Now())
	default:
		if _, ok := signal.Status(); !ok {
			return nil
		}
		if err := rc.retractOthers(ctx, surfaces, messageID, p.ID, signal); err != nil {
			return err
		}
		changed, err = card.ApplySignal(p, signal, rc.scheduler.Now())
	}
	if err != nil || !changed {
		return err
	}
	return card.Refresh(ctx)
}

// retractOthers removes every declaration reaction of userID on the card
// except the one just raised on messageID.
func (rc *Reconciler) retractOthers(ctx context.Context, s entities.Surfaces, messageID, userID string, raised entities.Signal) error {
	for _, ref := range s.Mirrors() {
		for _, sig := range entities.DeclarationSignals {
			if ref.MessageID == messageID && sig == raised {
				continue
			}
			users, err := rc.messenger.ListReactors(ctx, ref, sig)
			if err != nil {
				return domain.Collaborator("list reactors", err)
			}
			if !slices.Contains(users, userID) {
				continue
			}
			if err := rc.messenger.RetractReaction(ctx, ref, userID, sig); err != nil {
				return domain.Collaborator("retract reaction", err)
			}
		}
	}
	return nil
}

// heldDeclarations lists the declaration signals userID still holds on
// any surface of the card.
func (rc *Reconciler) heldDeclarations(ctx context.Context, s entities.Surfaces, userID string) ([]entities.Signal, error) {
	var held []entities.Signal
	for _, ref := range s.Mirrors() {
		for _, sig := range entities.DeclarationSignals {
			users, err := rc.messenger.ListReactors(ctx, ref, sig)
			if err != nil {
				return nil, domain.Collaborator("list reactors", err)
			}
			if slices.Contains(users, userID) {
				held = append(held, sig)
			}
		}
	}
	return held, nil
}
