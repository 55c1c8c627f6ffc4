package discord

import (
	"fmt"
	"strings"

	"riseup/internal/domain/entities"
)

// Mention returns the chat mention of a user ID.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// MentionAll joins the mentions of entries with spaces.
func MentionAll(entries []entities.ParticipantEntry) string {
	mentions := make([]string, 0, len(entries))
	for _, e := range entries {
		mentions = append(mentions, Mention(e.Participant.ID))
	}
	return strings.Join(mentions, " ")
}

// ParticipantLines renders one " - name" line per entry.
func ParticipantLines(entries []entities.ParticipantEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Participant.Name
		if name == "" {
			name = e.Participant.ID
		}
		lines = append(lines, " - "+name)
	}
	return strings.Join(lines, "\n")
}
