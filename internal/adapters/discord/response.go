package discord

import (
	"github.com/bwmarrin/discordgo"

	"riseup/internal/domain/entities"
)

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	return userDisplayName(member.User)
}

func userDisplayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func participantFromMember(member *discordgo.Member) entities.Participant {
	if member == nil || member.User == nil {
		return entities.Participant{}
	}
	return entities.Participant{
		ID:        member.User.ID,
		Name:      resolveDisplayName(member),
		AvatarURL: member.AvatarURL("128"),
	}
}

func participantFromUser(u *discordgo.User) entities.Participant {
	if u == nil {
		return entities.Participant{}
	}
	return entities.Participant{ID: u.ID, Name: userDisplayName(u), AvatarURL: u.AvatarURL("128")}
}

// interactionCaller returns the invoking member, or the user in DMs.
func interactionCaller(i *discordgo.Interaction) entities.Participant {
	if i.Member != nil && i.Member.User != nil {
		return participantFromMember(i.Member)
	}
	return participantFromUser(i.User)
}

func deferEphemeral(s *discordgo.Session, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func followupEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) error {
	_, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}
