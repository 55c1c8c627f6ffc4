package discord

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"riseup/internal/domain"
	"riseup/internal/ports/input"
	"riseup/internal/ports/output"
	pkgdiscord "riseup/pkg/discord"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	riseUp  input.RiseUpUseCase
	signals input.SignalUseCase
	text    output.Localizer
	timeout time.Duration
}

// NewHandler creates a Handler. timeout bounds each command and signal.
func NewHandler(
	riseUp input.RiseUpUseCase,
	signals input.SignalUseCase,
	text output.Localizer,
	timeout time.Duration,
) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		riseUp:  riseUp,
		signals: signals,
		text:    text,
		timeout: timeout,
	}
}

// HandleCommand defers an ephemeral reply, runs the command and sends its
// result as a follow-up.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := deferEphemeral(s, i.Interaction); err != nil {
		log.Error().Err(err).Msg("❌ Failed to acknowledge interaction")
		return
	}
	inv := newInvocation(i.Interaction)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	reply := h.run(ctx, inv)

	if err := followupEphemeral(s, i.Interaction, reply); err != nil {
		log.Error().Err(err).Str("command", inv.Path).Msg("❌ Failed to send command reply")
	}
}

func (h *Handler) run(ctx context.Context, inv invocation) string {
	reply, err := h.execute(ctx, inv)
	if err == nil {
		return reply
	}
	evt := log.Debug()
	if errors.Is(err, domain.ErrCollaborator) || domain.Code(err) == "" {
		evt = log.Error()
	}
	evt.Err(err).Str("command", inv.Path).Str("user", inv.Caller.ID).Msg("❌ Command failed")
	return h.text.Msg(pkgdiscord.ErrorMessageKey(err), nil)
}
