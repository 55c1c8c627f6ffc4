package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"riseup/internal/domain/entities"
)

func (h *Handler) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	h.onReaction(botUserID(s), r.MessageReaction, r.Member, true)
}

func (h *Handler) HandleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	h.onReaction(botUserID(s), r.MessageReaction, nil, false)
}

func botUserID(s *discordgo.Session) string {
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

// onReaction turns a declaration reaction from a member into a signal.
// Removals become retractions. Reactions from bots are ignored.
func (h *Handler) onReaction(botID string, r *discordgo.MessageReaction, member *discordgo.Member, added bool) {
	if r == nil || r.UserID == "" || r.UserID == botID {
		return
	}
	if member != nil && member.User != nil && member.User.Bot {
		return
	}
	sig, ok := signalForEmoji(r.Emoji.Name)
	if !ok {
		return
	}

	p := entities.Participant{ID: r.UserID}
	if member != nil && member.User != nil {
		p = participantFromMember(member)
	}
	if !added {
		sig = entities.SignalRetract
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.signals.HandleSignal(ctx, r.MessageID, p, sig)
}
