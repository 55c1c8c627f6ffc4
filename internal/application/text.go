package application

import (
	"riseup/internal/domain/entities"
	pkgdiscord "riseup/pkg/discord"
)

// Message keys of the bundles in internal/infrastructure/i18n.
const (
	keyReminder           = "card.reminder"
	keySummary            = "card.summary"
	keyCreated            = "reply.created"
	keyRescheduled        = "reply.rescheduled"
	keyCancelled          = "reply.cancelled"
	keyClosed             = "reply.closed"
	keyGiven              = "reply.given"
	keyUsurped            = "reply.usurped"
	keySetup              = "reply.setup"
	keyGuildNotConfigured = "info.guild_not_configured"
)

func (c *Card) reminderText(snap entities.CardSnapshot) string {
	return c.env.Text.Msg(keyReminder, map[string]any{
		"Mentions": pkgdiscord.MentionAll(snap.Attending),
		"Time":     pkgdiscord.FormatShortTime(snap.ScheduledAt),
		"Game":     snap.Activity.Name,
	})
}

func (c *Card) summaryText(snap entities.CardSnapshot) string {
	return c.env.Text.Msg(keySummary, map[string]any{
		"Owner":        pkgdiscord.Mention(snap.Owner.ID),
		"Game":         snap.Activity.Name,
		"Time":         pkgdiscord.FormatShortTime(snap.ScheduledAt),
		"Participants": pkgdiscord.ParticipantLines(snap.Attending),
	})
}
