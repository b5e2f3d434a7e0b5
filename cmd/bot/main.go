// Package main is the entry point for the Discord Game Bot.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/bot"
	"discord-game-bot/internal/config"
	"discord-game-bot/internal/dispatch"
	"discord-game-bot/internal/game"
	"discord-game-bot/internal/handler"
	"discord-game-bot/internal/pkg/db"
	"discord-game-bot/internal/pkg/lock"
	"discord-game-bot/internal/repository"
	"discord-game-bot/internal/service"
	"discord-game-bot/internal/words"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wordList, err := words.Load(cfg.Games.Words.File)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Games.Words.File).Msg("Failed to load word list")
	}
	log.Info().Int("words", wordList.Len()).Msg("Word list loaded")

	// Results are only stored when a database is configured.
	var (
		dispatchOpts = []dispatch.Option{dispatch.WithLockTimeout(cfg.Bot.LockTimeout)}
		statsReader  handler.StatsReader
	)
	if cfg.Database.Enabled {
		dbPool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer dbPool.Close()

		if err := repository.Migrate(ctx, dbPool.Pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}

		statsService := service.NewStatsService(repository.NewResultRepository(dbPool.Pool))
		dispatchOpts = append(dispatchOpts, dispatch.WithRecorder(statsService))
		statsReader = statsService
	} else {
		log.Info().Msg("Database disabled, game results will not be stored")
	}

	session, err := bot.NewSession(&cfg.Bot)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord session")
	}

	registry := game.NewRegistry()
	locks := lock.NewKeyLock()
	cleaner := handler.NewMessageCleaner(handler.DefaultCleanInterval)
	outbound := handler.NewOutbound(session, cleaner, cfg.Bot.NoticeTTL)
	dispatcher := dispatch.New(registry, locks, outbound, dispatchOpts...)

	discordBot, err := bot.New(&bot.Dependencies{
		Config:       cfg,
		Session:      session,
		Dispatcher:   dispatcher,
		Cleaner:      cleaner,
		GameHandler:  handler.NewGameHandler(cfg, registry, dispatcher, wordList),
		HelpHandler:  handler.NewHelpHandler(handler.Commands()),
		AdminHandler: handler.NewAdminHandler(registry, locks, wordList),
		StatsHandler: handler.NewStatsHandler(statsReader),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start bot")
	}
	log.Info().Msg("Bot is running")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	discordBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}
