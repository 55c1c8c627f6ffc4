// Package ledger tracks who declared what on a card, and when.
package ledger

import (
	"sort"
	"time"

	"riseup/internal/domain/entities"
)

// Ledger maps participant IDs to their declaration. It is not safe for
// concurrent use; the owning card serializes access.
type Ledger struct {
	entries map[string]*entities.ParticipantEntry
	seq     uint64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*entities.ParticipantEntry)}
}

// Upsert records status for p. A first declaration is stamped with now;
// later ones only change the status (and refresh the display name).
// It reports whether the ledger changed.
func (l *Ledger) Upsert(p entities.Participant, status entities.Status, now time.Time) bool {
	if e, ok := l.entries[p.ID]; ok {
		changed := e.Status != status || e.Participant != p
		e.Status = status
		e.Participant = p
		return changed
	}
	l.seq++
	l.entries[p.ID] = &entities.ParticipantEntry{
		Participant: p,
		Status:      status,
		DeclaredAt:  now,
		Seq:         l.seq,
	}
	return true
}

// Remove deletes the participant's entry. It reports whether one existed.
func (l *Ledger) Remove(participantID string) bool {
	if _, ok := l.entries[participantID]; !ok {
		return false
	}
	delete(l.entries, participantID)
	return true
}

// Get returns a copy of the participant's entry.
func (l *Ledger) Get(participantID string) (entities.ParticipantEntry, bool) {
	e, ok := l.entries[participantID]
	if !ok {
		return entities.ParticipantEntry{}, false
	}
	return *e, true
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// SortedView returns copies of the entries matching pred, ordered by
// DeclaredAt and then by insertion order. A nil pred matches everything.
func (l *Ledger) SortedView(pred func(entities.ParticipantEntry) bool) []entities.ParticipantEntry {
	out := make([]entities.ParticipantEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if pred == nil || pred(*e) {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DeclaredAt.Equal(out[j].DeclaredAt) {
			return out[i].DeclaredAt.Before(out[j].DeclaredAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Attending matches Available and Late entries.
func Attending(e entities.ParticipantEntry) bool {
	return e.Status.Attending()
}

// HasStatus matches entries with the given status.
func HasStatus(s entities.Status) func(entities.ParticipantEntry) bool {
	return func(e entities.ParticipantEntry) bool { return e.Status == s }
}
