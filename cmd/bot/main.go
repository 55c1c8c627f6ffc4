package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"riseup/internal/adapters/discord"
	"riseup/internal/application"
	"riseup/internal/config"
	"riseup/internal/infrastructure/catalog"
	"riseup/internal/infrastructure/database"
	"riseup/internal/infrastructure/i18n"
	"riseup/internal/infrastructure/logging"
	"riseup/internal/infrastructure/memory"
	"riseup/internal/infrastructure/render"
	"riseup/internal/ports/output"
	"riseup/internal/scheduler"
	"riseup/pkg/tz"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	skipRegister := pflag.Bool("skip-register", false, "do not (re)declare slash commands on startup")
	migrateOnly := pflag.Bool("migrate-only", false, "apply guild store migrations and exit")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logging.Init("riseup", "info")
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	logging.Init("riseup", cfg.LogLevel)

	if *migrateOnly {
		if err := database.RunMigrations(cfg.GuildStoreDSN); err != nil {
			log.Fatal().Err(err).Msg("❌ Migrations failed")
		}
		log.Info().Msg("✅ Migrations applied")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	guilds, closeStore, err := database.OpenGuildStore(ctx, cfg.GuildStoreDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open guild store")
	}
	defer closeStore()

	games, err := catalog.Load(cfg.GamesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.GamesFile).Msg("❌ Failed to load game catalog")
	}
	log.Info().Int("games", games.Len()).Msg("🎮 Game catalog loaded")

	text := output.Localizer{Translator: i18n.NewTranslator(cfg.Locale), Locale: cfg.Locale}

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create Discord session")
	}
	messenger := discord.NewMessenger(session)
	sched := scheduler.New(nil)

	env := application.CardEnv{
		Messenger:      messenger,
		Renderer:       render.NewCardRenderer(filepath.Dir(cfg.GamesFile), text),
		Scheduler:      sched,
		Text:           text,
		CacheChannelID: cfg.CacheChannelID,
		CloseDelay:     cfg.CloseRiseDelay,
		CacheTTL:       cfg.CacheTTL,
		Timeout:        cfg.RequestTimeout,
	}
	registry := application.NewRegistry(memory.NewDirectory())
	riseUp := application.NewRiseUpService(registry, env, guilds, messenger, games, tz.Load(cfg.Timezone))
	reconciler := application.NewReconciler(registry, messenger, sched)

	handler := discord.NewHandler(riseUp, reconciler, text, cfg.RequestTimeout)
	bot := discord.NewBot(session, handler, cfg.GuildID)
	if err := bot.Start(ctx, !*skipRegister); err != nil {
		log.Error().Err(err).Msg("❌ Bot stopped")
		stop()
		closeStore()
		os.Exit(1)
	}
}
