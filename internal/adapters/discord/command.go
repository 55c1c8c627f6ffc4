package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/ports/input"
	pkgdiscord "riseup/pkg/discord"
)

const (
	cmdRiseUp     = "rise up"
	cmdChangeTime = "change time"
	cmdCancel     = "cancel"
	cmdClose      = "close"
	cmdGive       = "give"
	cmdUsurp      = "usurp"
	cmdForceSetup = "force setup"
)

var manageChannels int64 = discordgo.PermissionManageChannels

// Commands returns the slash commands the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	userOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Member to hand the rise up to",
		Required:    true,
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:        "rise",
			Description: "Rise up commands",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "up",
				Description: "Propose a game session",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "game", Description: "Game to play", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "Start time, e.g. 8pm or 9:01am", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "slots", Description: "Number of players", Required: true, MinValue: floatPtr(1)},
				},
			}},
		},
		{
			Name:        "change",
			Description: "Change your rise up",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "time",
				Description: "Move your rise up to another time",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "New start time, e.g. 9pm", Required: true},
				},
			}},
		},
		{Name: cmdCancel, Description: "Cancel your rise up and delete its messages"},
		{Name: cmdClose, Description: "Close your rise up now"},
		{Name: cmdGive, Description: "Give your rise up to another member", Options: []*discordgo.ApplicationCommandOption{userOpt}},
		{Name: cmdUsurp, Description: "Take over another member's rise up", Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member whose rise up you take over",
			Required:    true,
		}}},
		{
			Name:                     "force",
			Description:              "Administration",
			DefaultMemberPermissions: &manageChannels,
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setup",
				Description: "Create or bind the rise-ups channel",
			}},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }

// invocation is a slash command reduced to what the use cases need.
type invocation struct {
	Path      string
	GuildID   string
	ChannelID string
	Caller    entities.Participant
	Options   map[string]*discordgo.ApplicationCommandInteractionDataOption
	Users     map[string]entities.Participant
}

func newInvocation(i *discordgo.Interaction) invocation {
	data := i.ApplicationCommandData()
	path, opts := pkgdiscord.CommandPath(data)
	inv := invocation{
		Path:      path,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Caller:    interactionCaller(i),
		Options:   pkgdiscord.OptionMap(opts),
		Users:     map[string]entities.Participant{},
	}
	if data.Resolved != nil {
		for id, u := range data.Resolved.Users {
			p := participantFromUser(u)
			if m, ok := data.Resolved.Members[id]; ok && m.Nick != "" {
				p.Name = m.Nick
			}
			inv.Users[id] = p
		}
	}
	return inv
}

// user returns the participant picked in the named user option.
func (inv invocation) user(name string) (entities.Participant, bool) {
	id := pkgdiscord.UserOption(inv.Options, name)
	if id == "" {
		return entities.Participant{}, false
	}
	if p, ok := inv.Users[id]; ok {
		return p, true
	}
	return entities.Participant{ID: id}, true
}

func (h *Handler) execute(ctx context.Context, inv invocation) (string, error) {
	switch inv.Path {
	case cmdRiseUp:
		return h.riseUp.Create(ctx, input.CreateRequest{
			GuildID:   inv.GuildID,
			ChannelID: inv.ChannelID,
			Owner:     inv.Caller,
			GameKey:   strings.TrimSpace(pkgdiscord.StringOption(inv.Options, "game")),
			TimeText:  pkgdiscord.StringOption(inv.Options, "time"),
			Slots:     pkgdiscord.IntOption(inv.Options, "slots"),
		})
	case cmdChangeTime:
		return h.riseUp.Reschedule(ctx, inv.Caller.ID, pkgdiscord.StringOption(inv.Options, "time"))
	case cmdCancel:
		return h.riseUp.Cancel(ctx, inv.Caller.ID)
	case cmdClose:
		return h.riseUp.Close(ctx, inv.Caller.ID)
	case cmdGive:
		target, ok := inv.user("user")
		if !ok {
			return "", domain.ErrValidation
		}
		return h.riseUp.Give(ctx, inv.Caller.ID, target)
	case cmdUsurp:
		target, ok := inv.user("user")
		if !ok {
			return "", domain.ErrValidation
		}
		return h.riseUp.Usurp(ctx, inv.Caller, target)
	case cmdForceSetup:
		if inv.GuildID == "" {
			return "", domain.ErrValidation
		}
		return h.riseUp.Setup(ctx, inv.GuildID)
	}
	return "", domain.ErrValidation
}
