package entities

import "time"

// Participant is a member identity as seen by the bot.
type Participant struct {
	ID        string
	Name      string
	AvatarURL string
}

// Status is a declared availability.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusLate        Status = "late"
	StatusUnavailable Status = "unavailable"
)

// Attending reports whether the status counts towards the rise up.
func (s Status) Attending() bool {
	return s == StatusAvailable || s == StatusLate
}

// Signal is a raw availability signal raised on a card surface.
type Signal string

const (
	SignalAvailable   Signal = "available"
	SignalLate        Signal = "late"
	SignalUnavailable Signal = "unavailable"
	SignalRetract     Signal = "retract"
)

// DeclarationSignals are the signals that carry a status, in the order
// their reactions are added to a surface.
var DeclarationSignals = []Signal{SignalAvailable, SignalLate, SignalUnavailable}

// Status maps a declaration signal to its status. ok is false for
// SignalRetract and unknown signals.
func (s Signal) Status() (status Status, ok bool) {
	switch s {
	case SignalAvailable:
		return StatusAvailable, true
	case SignalLate:
		return StatusLate, true
	case SignalUnavailable:
		return StatusUnavailable, true
	}
	return "", false
}

// ParticipantEntry is one participant's declaration on a card.
// DeclaredAt is set on first declaration and never changes afterwards.
type ParticipantEntry struct {
	Participant Participant
	Status      Status
	DeclaredAt  time.Time
	Seq         uint64
}
