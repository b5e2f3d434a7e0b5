package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/config"
	"discord-game-bot/internal/dispatch"
	"discord-game-bot/internal/game"
	"discord-game-bot/internal/game/checkers"
	"discord-game-bot/internal/game/hangman"
	"discord-game-bot/internal/game/mastermind"
	"discord-game-bot/internal/game/minesweeper"
	"discord-game-bot/internal/game/rps"
	"discord-game-bot/internal/game/tictactoe"
	"discord-game-bot/internal/game/wordgame"
	"discord-game-bot/internal/words"
)

// ThreadArchiveMinutes is how long an idle game thread stays open.
const ThreadArchiveMinutes = 60

// Errors for challenge commands.
var (
	ErrNoChallengee  = errors.New("no user to challenge")
	ErrChallengeBot  = errors.New("bots cannot be challenged")
	ErrChallengeSelf = errors.New("cannot challenge yourself")
)

// userMessage maps handler errors to the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoChallengee):
		return "Pick a user to challenge."
	case errors.Is(err, ErrChallengeBot):
		return "Bots cannot be challenged."
	case errors.Is(err, ErrChallengeSelf):
		return "You cannot challenge yourself."
	default:
		return "Something went wrong, please try again later."
	}
}

// GameHandler starts games and routes button presses.
type GameHandler struct {
	cfg        *config.Config
	registry   *game.Registry
	dispatcher *dispatch.Dispatcher
	words      *words.List
	newRand    func() *rand.Rand
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	cfg *config.Config,
	registry *game.Registry,
	dispatcher *dispatch.Dispatcher,
	wordList *words.List,
) *GameHandler {
	return &GameHandler{
		cfg:        cfg,
		registry:   registry,
		dispatcher: dispatcher,
		words:      wordList,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// placement says where a new game is shown.
type placement struct {
	// createThread starts a new thread for the game.
	createThread bool
	// threadID is set when the command was run inside a thread made for
	// this kind of game, which then becomes the game's thread.
	threadID string
}

func (p placement) inThread() bool { return p.createThread || p.threadID != "" }

// place decides whether a game named name runs in a thread.
func (h *GameHandler) place(s Session, i *discordgo.InteractionCreate, name string, want bool) placement {
	if i.GuildID == "" {
		return placement{}
	}

	channel, err := s.Channel(i.ChannelID)
	if err != nil {
		log.Debug().Err(err).Str("channel_id", i.ChannelID).Msg("Failed to fetch channel")
		return placement{createThread: want}
	}

	switch {
	case channel.Type == discordgo.ChannelTypeGuildPublicThread && channel.Name == name:
		return placement{threadID: channel.ID}
	case channel.IsThread():
		// Threads cannot be nested.
		return placement{}
	default:
		return placement{createThread: want}
	}
}

// HandleCheckers handles the /checkers command.
func (h *GameHandler) HandleCheckers(s Session, i *discordgo.InteractionCreate) error {
	opts := optionsOf(i)
	challengee, err := h.challengee(i, opts)
	if err != nil {
		return RespondError(s, i, userMessage(err))
	}

	p := h.place(s, i, commandInfo[CmdCheckers].Group, opts.boolValue("thread"))
	g := checkers.New(checkers.Options{
		ChallengerID: userOf(i).ID,
		ChallengeeID: challengee,
		Legacy:       opts.boolValue("legacy"),
		InThread:     p.inThread(),
	})
	return h.launch(s, i, g, p)
}

// HandleHangman handles the /hangman command.
func (h *GameHandler) HandleHangman(s Session, i *discordgo.InteractionCreate) error {
	opts := optionsOf(i)
	p := h.place(s, i, commandInfo[CmdHangman].Group, opts.boolValue("thread"))
	g := hangman.New(hangman.Options{
		OwnerID:      userOf(i).ID,
		Word:         h.words.Random(h.newRand()),
		MaxMistakes:  h.cfg.Games.Hangman.MaxMistakes,
		Multiguesser: opts.boolValue("multiguesser"),
		InThread:     p.inThread(),
	})
	return h.launch(s, i, g, p)
}

// HandleMastermind handles the /mastermind command.
func (h *GameHandler) HandleMastermind(s Session, i *discordgo.InteractionCreate) error {
	opts := optionsOf(i)
	p := h.place(s, i, commandInfo[CmdMastermind].Group, opts.boolValue("thread"))
	g := mastermind.New(mastermind.Options{
		OwnerID:      userOf(i).ID,
		Digits:       opts.intValue("digits", h.cfg.Games.Mastermind.Digits),
		HigherLower:  opts.boolValue("higher_or_lower"),
		Multiguesser: opts.boolValue("multiguesser"),
		InThread:     p.inThread(),
	}, h.newRand())
	return h.launch(s, i, g, p)
}

// HandleWords handles the /words command.
func (h *GameHandler) HandleWords(s Session, i *discordgo.InteractionCreate) error {
	opts := optionsOf(i)
	mode, ok := wordgame.ParseMode(opts.stringValue("minigame"))
	if !ok {
		return RespondError(s, i, "Unknown minigame, pick missing_vowels or unscramble.")
	}

	p := h.place(s, i, commandInfo[CmdWords].Group, opts.boolValue("thread"))
	g, err := wordgame.New(wordgame.Options{
		OwnerID:      userOf(i).ID,
		Mode:         mode,
		Multiguesser: opts.boolValue("multiguesser"),
		InThread:     p.inThread(),
	}, h.words, h.newRand())
	if err != nil {
		if errors.Is(err, wordgame.ErrNoWord) {
			return RespondError(s, i, "The word list has no word for this minigame.")
		}
		return fmt.Errorf("failed to create word game: %w", err)
	}
	return h.launch(s, i, g, p)
}

// HandleMinesweeper handles the /minesweeper command.
func (h *GameHandler) HandleMinesweeper(s Session, i *discordgo.InteractionCreate) error {
	opts := optionsOf(i)
	g := minesweeper.New(minesweeper.Options{
		OwnerID: userOf(i).ID,
		Size:    opts.intValue("grid_size", h.cfg.Games.Minesweeper.Size),
		Bombs:   opts.intValue("bomb_count", h.cfg.Games.Minesweeper.Bombs),
	}, h.newRand())
	return h.launch(s, i, g, placement{})
}

// HandleTicTacToe handles the /tictactoe command.
func (h *GameHandler) HandleTicTacToe(s Session, i *discordgo.InteractionCreate) error {
	challengee, err := h.challengee(i, optionsOf(i))
	if err != nil {
		return RespondError(s, i, userMessage(err))
	}
	g := tictactoe.New(tictactoe.Options{ChallengerID: userOf(i).ID, ChallengeeID: challengee})
	return h.launch(s, i, g, placement{})
}

// HandleRPSChallenge handles the /rpschallenge command.
func (h *GameHandler) HandleRPSChallenge(s Session, i *discordgo.InteractionCreate) error {
	challengee, err := h.challengee(i, optionsOf(i))
	if err != nil {
		return RespondError(s, i, userMessage(err))
	}
	g := rps.New(rps.Options{ChallengerID: userOf(i).ID, ChallengeeID: challengee})
	return h.launch(s, i, g, placement{})
}

// challengee returns the user picked in the "user" option.
func (h *GameHandler) challengee(i *discordgo.InteractionCreate, opts options) (string, error) {
	id := opts.userID("user")
	if id == "" {
		return "", ErrNoChallengee
	}
	if u := userOf(i); u != nil && u.ID == id {
		return "", ErrChallengeSelf
	}
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if u, ok := resolved.Users[id]; ok && u.Bot {
			return "", ErrChallengeBot
		}
	}
	return id, nil
}

// launch shows g and registers its session.
func (h *GameHandler) launch(s Session, i *discordgo.InteractionCreate, g game.Game, p placement) error {
	ctx := context.Background()
	logger := log.With().
		Str("game", g.Name()).
		Str("user_id", userOf(i).ID).
		Str("channel_id", i.ChannelID).
		Logger()

	var (
		sess *game.Session
		err  error
	)
	if p.createThread {
		sess, err = h.launchInThread(ctx, s, i, g)
	} else {
		sess, err = h.launchHere(ctx, s, i, g)
		if sess != nil {
			sess.ThreadID = p.threadID
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start game")
		return err
	}

	h.registry.Register(sess)
	logger.Info().
		Str("session_id", sess.ID.String()).
		Str("message_id", sess.MessageID).
		Str("thread_id", sess.ThreadID).
		Msg("Game started")
	return nil
}

func (h *GameHandler) launchHere(ctx context.Context, s Session, i *discordgo.InteractionCreate, g game.Game) (*game.Session, error) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    g.Render(),
			Components: gameComponents(g),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to respond: %w", err)
	}

	msg, err := s.InteractionResponse(i.Interaction, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch response message: %w", err)
	}
	return game.NewSession(g, i.ChannelID, msg.ID), nil
}

func (h *GameHandler) launchInThread(ctx context.Context, s Session, i *discordgo.InteractionCreate, g game.Game) (*game.Session, error) {
	notice := fmt.Sprintf("Starting %s game in thread!", strings.ToLower(g.Name()))
	if err := respond(s, i, notice, true); err != nil {
		return nil, fmt.Errorf("failed to respond: %w", err)
	}

	thread, err := s.ThreadStartComplex(i.ChannelID, &discordgo.ThreadStart{
		Name:                g.Name(),
		AutoArchiveDuration: ThreadArchiveMinutes,
		Type:                discordgo.ChannelTypeGuildPublicThread,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	msg, err := s.ChannelMessageSendComplex(thread.ID, &discordgo.MessageSend{
		Content:    g.Render(),
		Components: gameComponents(g),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send game message: %w", err)
	}

	sess := game.NewSession(g, thread.ID, msg.ID)
	sess.ThreadID = thread.ID
	return sess, nil
}

// HandleComponent handles a button press on a game message.
func (h *GameHandler) HandleComponent(s Session, i *discordgo.InteractionCreate) error {
	actionID, ok := ActionID(i.MessageComponentData().CustomID)
	if !ok || i.Message == nil {
		return nil
	}
	user := userOf(i)
	if user == nil {
		return nil
	}

	if _, ok := h.registry.Lookup(i.Message.ID); !ok {
		return RespondError(s, i, "This game is no longer running.")
	}

	// The dispatcher edits the message itself, so only acknowledge here.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Warn().Err(err).Str("interaction_id", i.ID).Msg("Failed to acknowledge button press")
	}

	ctx := context.Background()
	outcome, err := h.dispatcher.HandlePress(ctx, dispatch.Press{
		UserID:    user.ID,
		ChannelID: i.ChannelID,
		MessageID: i.Message.ID,
		ActionID:  actionID,
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("user_id", user.ID).
		Str("message_id", i.Message.ID).
		Str("action", actionID).
		Stringer("outcome", outcome).
		Msg("Button press")

	if outcome == game.AlreadyMade {
		_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
			Content: "You have already made your choice.",
			Flags:   discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(ctx))
		if err != nil {
			log.Warn().Err(err).Str("interaction_id", i.ID).Msg("Failed to send already made notice")
		}
	}
	return nil
}
