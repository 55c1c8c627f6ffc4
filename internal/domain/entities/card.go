package entities

import "time"

// State is a card lifecycle state.
type State string

const (
	StateDraft     State = "draft"
	StateActive    State = "active"
	StateClosed    State = "closed"
	StateCancelled State = "cancelled"
)

// Activity is what the rise up is for.
type Activity struct {
	Key       string
	Name      string
	ImagePath string
}

// MessageRef identifies a message published on the chat platform.
type MessageRef struct {
	ChannelID     string
	MessageID     string
	AttachmentURL string
}

// Surfaces are the externally rendered messages of a card.
type Surfaces struct {
	Origin    *MessageRef
	Forwarded *MessageRef
	Cache     *MessageRef
}

// Mirrors returns the reactable surfaces (origin and forwarded).
func (s Surfaces) Mirrors() []MessageRef {
	out := make([]MessageRef, 0, 2)
	if s.Origin != nil {
		out = append(out, *s.Origin)
	}
	if s.Forwarded != nil {
		out = append(out, *s.Forwarded)
	}
	return out
}

// GuildConfig is the per-guild configuration.
type GuildConfig struct {
	RiseUpChannelID string
}

// CardSnapshot is a read-only view of a card, safe to hand to renderers.
type CardSnapshot struct {
	ID          string
	GuildID     string
	Owner       Participant
	Activity    Activity
	ScheduledAt time.Time
	Capacity    int
	State       State
	Version     uint64
	Attending   []ParticipantEntry
	Unavailable []ParticipantEntry
}
