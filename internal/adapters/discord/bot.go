package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	guildID string
}

// NewSession creates the discordgo session for token.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = intents
	return s, nil
}

// NewBot wires handler to session. guildID scopes command registration;
// empty registers global commands.
func NewBot(session *discordgo.Session, handler *Handler, guildID string) *Bot {
	bot := &Bot{session: session, handler: handler, guildID: guildID}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handler.HandleReactionAdd)
	b.session.AddHandler(b.handler.HandleReactionRemove)
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("✅ Logged in")
	})
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommand {
		b.handler.HandleCommand(s, i)
	}
}

// Start runs the bot until ctx is done. With register set, slash commands
// are (re)declared first.
func (b *Bot) Start(ctx context.Context, register bool) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	if register {
		b.registerCommands()
	}

	log.Info().Msg("🤖 Bot online, press CTRL+C to quit")
	<-ctx.Done()
	log.Info().Msg("👋 Shutting down")
	return nil
}

func (b *Bot) registerCommands() {
	appID := b.session.State.User.ID
	for _, cmd := range Commands() {
		if _, err := b.session.ApplicationCommandCreate(appID, b.guildID, cmd); err != nil {
			log.Warn().Err(err).Str("command", cmd.Name).Msg("⚠️ Failed to register command")
		}
	}
}
