// Package bot wires the Discord gateway to the command handlers and the
// game dispatcher.
package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/config"
	"discord-game-bot/internal/dispatch"
	"discord-game-bot/internal/handler"
)

// ErrEmptyToken is returned when no bot token is configured.
var ErrEmptyToken = errors.New("bot token is required")

// Intents are the gateway events the bot needs: interactions arrive without
// an intent, guesses arrive as guild and direct messages.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// NewSession creates a Discord session for the configured token. The
// connection is opened by Bot.Start.
func NewSession(cfg *config.BotConfig) (*discordgo.Session, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	s, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

// Bot routes gateway events to application handlers.
type Bot struct {
	session    *discordgo.Session
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	cleaner    *handler.MessageCleaner
	private    *PrivateUsers

	commands  map[string]handler.HandlerFunc
	component handler.HandlerFunc

	cancel context.CancelFunc
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config       *config.Config
	Session      *discordgo.Session
	Dispatcher   *dispatch.Dispatcher
	Cleaner      *handler.MessageCleaner
	GameHandler  *handler.GameHandler
	HelpHandler  *handler.HelpHandler
	AdminHandler *handler.AdminHandler
	StatsHandler *handler.StatsHandler
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Session == nil {
		return nil, errors.New("discord session is required")
	}

	b := &Bot{
		session:    deps.Session,
		cfg:        deps.Config,
		dispatcher: deps.Dispatcher,
		cleaner:    deps.Cleaner,
		private:    NewPrivateUsers(),
	}
	b.registerHandlers(deps)

	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(s, i)
	})
	b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		b.handleMessage(context.Background(), m)
	})
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info().
			Str("user", r.User.Username).
			Int("guilds", len(r.Guilds)).
			Msg("Connected to Discord")
	})

	return b, nil
}

// registerHandlers builds the command table. Every command passes through
// recovery, logging and the whitelist; admin commands are checked as well.
func (b *Bot) registerHandlers(deps *Dependencies) {
	base := []Middleware{
		RecoveryMiddleware(),
		LoggingMiddleware(),
		WhitelistMiddleware(b.cfg, b.private),
	}
	admin := append(slices.Clone(base), AdminMiddleware(b.cfg))

	games := deps.GameHandler
	b.commands = map[string]handler.HandlerFunc{
		handler.CmdCheckers:     Chain(games.HandleCheckers, base...),
		handler.CmdHangman:      Chain(games.HandleHangman, base...),
		handler.CmdMastermind:   Chain(games.HandleMastermind, base...),
		handler.CmdWords:        Chain(games.HandleWords, base...),
		handler.CmdMinesweeper:  Chain(games.HandleMinesweeper, base...),
		handler.CmdTicTacToe:    Chain(games.HandleTicTacToe, base...),
		handler.CmdRPSChallenge: Chain(games.HandleRPSChallenge, base...),
		handler.CmdHelp:         Chain(deps.HelpHandler.HandleHelp, base...),
		handler.CmdStats:        Chain(deps.StatsHandler.HandleStats, base...),
		handler.CmdReload:       Chain(deps.AdminHandler.HandleReload, admin...),
	}
	b.component = Chain(games.HandleComponent, RecoveryMiddleware(), LoggingMiddleware())
}

func (b *Bot) handleInteraction(s handler.Session, i *discordgo.InteractionCreate) {
	var h handler.HandlerFunc
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h = b.commands[i.ApplicationCommandData().Name]
	case discordgo.InteractionMessageComponent:
		h = b.component
	}
	if h == nil {
		log.Debug().Str("interaction", i.Type.String()).Msg("Unhandled interaction")
		return
	}

	// Errors are logged by LoggingMiddleware.
	_ = h(s, i)
}

// handleMessage forwards chat messages to the dispatcher, which decides
// whether they continue a game.
func (b *Bot) handleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	in := dispatch.Inbound{
		AuthorID:  m.Author.ID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Content:   m.Content,
	}
	if m.MessageReference != nil {
		in.ReferencedMessageID = m.MessageReference.MessageID
	}

	if _, err := b.dispatcher.HandleMessage(ctx, in); err != nil {
		log.Error().Err(err).
			Str("user_id", in.AuthorID).
			Str("channel_id", in.ChannelID).
			Msg("Failed to handle message")
	}
}

// Start connects to the gateway, registers the slash commands and starts
// the message cleaner.
func (b *Bot) Start(ctx context.Context) error {
	log.Info().Msg("Starting bot...")

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	appID := b.cfg.Bot.AppID
	if appID == "" && b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	cmds, err := b.session.ApplicationCommandBulkOverwrite(appID, b.cfg.Bot.GuildID, handler.Commands(), discordgo.WithContext(ctx))
	if err != nil {
		_ = b.session.Close()
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Info().
		Int("commands", len(cmds)).
		Str("guild_id", b.cfg.Bot.GuildID).
		Msg("Slash commands registered")

	cleanCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.cleaner.Start(cleanCtx, b.session)
	log.Info().Msg("Message cleaner started")

	return nil
}

// Stop flushes pending notices and closes the gateway connection.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	if b.cancel != nil {
		b.cancel()
	}
	if n := b.cleaner.Clean(context.Background(), b.session, time.Time{}); n > 0 {
		log.Info().Int("messages", n).Msg("Deleted pending notices")
	}
	if err := b.session.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close gateway connection")
	}
}
