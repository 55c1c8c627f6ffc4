package application

import (
	"errors"
	"strings"
	"testing"
	"time"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/infrastructure/memory"
)

func TestRegistryDirectoryOperations(t *testing.T) {
	h := newHarness(t)
	r := NewRegistry(memory.NewDirectory())
	card, err := NewCard(h.env, CardParams{
		ChannelID:   originChan,
		Owner:       person("alice"),
		Activity:    entities.Activity{Name: "Warzone"},
		ScheduledAt: epoch.Add(time.Hour),
		Capacity:    3,
	})
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}

	r.RegisterOwner("alice", card)
	r.RegisterSurface("m1", "alice")
	r.RegisterSurface("m2", "alice")

	if got, ok := r.LookupByOwner("alice"); !ok || got != card {
		t.Fatalf("LookupByOwner = %v, %v", got, ok)
	}
	if owner, ok := r.LookupByMessage("m2"); !ok || owner != "alice" {
		t.Fatalf("LookupByMessage = %q, %v", owner, ok)
	}

	r.Unregister("alice")
	if _, ok := r.LookupByOwner("alice"); ok {
		t.Fatalf("owner still registered")
	}
	for _, id := range []string{"m1", "m2"} {
		if _, ok := r.LookupByMessage(id); ok {
			t.Fatalf("surface %s still registered", id)
		}
	}
}

func TestTransferGive(t *testing.T) {
	h := newHarness(t)
	card := h.startCard("alice", time.Hour)

	ev, err := h.registry.Transfer(card, person("bob"), TransferGive)
	if err != nil || ev != nil {
		t.Fatalf("Transfer = %v, %v", ev, err)
	}
	if card.Owner().ID != "bob" {
		t.Fatalf("owner = %s", card.Owner().ID)
	}
	if _, ok := h.registry.LookupByOwner("alice"); ok {
		t.Fatalf("old owner still registered")
	}
	if got, _ := h.registry.LookupByOwner("bob"); got != card {
		t.Fatalf("new owner not registered")
	}
	for _, ref := range card.Surfaces().Mirrors() {
		if owner, _ := h.registry.LookupByMessage(ref.MessageID); owner != "bob" {
			t.Fatalf("surface %s maps to %q", ref.MessageID, owner)
		}
	}
}

func TestTransferGiveConflict(t *testing.T) {
	h := newHarness(t)
	alices := h.startCard("alice", time.Hour)
	bobs := h.startCard("bob", time.Hour)

	_, err := h.registry.Transfer(alices, person("bob"), TransferGive)
	if !errors.Is(err, domain.ErrOwnershipConflict) {
		t.Fatalf("err = %v, want ownership conflict", err)
	}
	if alices.Owner().ID != "alice" || bobs.State() != entities.StateActive {
		t.Fatalf("failed give mutated the cards")
	}
	if got, _ := h.registry.LookupByOwner("bob"); got != bobs {
		t.Fatalf("bob's mapping changed")
	}
}

func TestTransferUsurpEvictsTarget(t *testing.T) {
	h := newHarness(t)
	alices := h.startCard("alice", time.Hour)
	bobs := h.startCard("bob", time.Hour)
	bobOrigin := *bobs.Surfaces().Origin

	ev, err := h.registry.Transfer(alices, person("bob"), TransferUsurp)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if ev.Card() != bobs || bobs.State() != entities.StateClosed {
		t.Fatalf("bob's card was not evicted")
	}
	if got, _ := h.registry.LookupByOwner("bob"); got != alices {
		t.Fatalf("bob does not own the usurped card")
	}
	if _, ok := h.registry.LookupByMessage(bobOrigin.MessageID); ok {
		t.Fatalf("evicted card surface still registered")
	}

	if err := ev.Finish(h.ctx); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !strings.HasPrefix(h.msg.message(bobOrigin.MessageID).content, keySummary) {
		t.Fatalf("evicted card was not summarized")
	}
}

func TestTransferRejectsSameOwnerAndStaleCards(t *testing.T) {
	h := newHarness(t)
	card := h.startCard("alice", time.Hour)

	if _, err := h.registry.Transfer(card, person("alice"), TransferGive); !errors.Is(err, domain.ErrSameOwner) {
		t.Fatalf("same owner err = %v", err)
	}
	if err := card.Close(h.ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := h.registry.Transfer(card, person("bob"), TransferUsurp); !errors.Is(err, domain.ErrStaleCard) {
		t.Fatalf("closed card err = %v", err)
	}
}

func TestReleaseIgnoresReplacedCard(t *testing.T) {
	h := newHarness(t)
	first := h.startCard("alice", time.Hour)
	second := h.startCard("alice", time.Hour)

	h.registry.Release(first)
	if got, _ := h.registry.LookupByOwner("alice"); got != second {
		t.Fatalf("releasing a replaced card dropped the current one")
	}
}

func TestCardForMessageFollowsTransfer(t *testing.T) {
	h := newHarness(t)
	card := h.startCard("alice", time.Hour)
	origin := card.Surfaces().Origin.MessageID

	if got, ok := h.registry.CardForMessage(origin); !ok || got != card {
		t.Fatalf("CardForMessage = %v, %v", got, ok)
	}
	if _, err := h.registry.Transfer(card, person("bob"), TransferGive); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if got, ok := h.registry.CardForMessage(origin); !ok || got != card {
		t.Fatalf("CardForMessage after transfer = %v, %v", got, ok)
	}
	if _, ok := h.registry.CardForMessage("unknown"); ok {
		t.Fatalf("unknown message resolved to a card")
	}
}
