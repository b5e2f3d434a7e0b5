package handler

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-game-bot/internal/config"
	"discord-game-bot/internal/dispatch"
	"discord-game-bot/internal/game"
	"discord-game-bot/internal/pkg/lock"
	"discord-game-bot/internal/words"
)

type fixture struct {
	session  *mockSession
	registry *game.Registry
	locks    *lock.KeyLock
	words    *words.List
	cleaner  *MessageCleaner
	games    *GameHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Games.Hangman.MaxMistakes = 5
	cfg.Games.Mastermind.Digits = 4
	cfg.Games.Minesweeper.Size = 9
	cfg.Games.Minesweeper.Bombs = 5

	list, err := words.FromWords([]string{"dinosaur", "education", "cat"})
	require.NoError(t, err)

	f := &fixture{
		session:  newMockSession(),
		registry: game.NewRegistry(),
		locks:    lock.NewKeyLock(),
		words:    list,
		cleaner:  NewMessageCleaner(time.Hour),
	}
	out := NewOutbound(f.session, f.cleaner, 10*time.Second)
	d := dispatch.New(f.registry, f.locks, out)
	f.games = NewGameHandler(cfg, f.registry, d, list)
	f.games.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }
	return f
}

func (f *fixture) session0(t *testing.T, key string) *game.Session {
	t.Helper()
	s, ok := f.registry.Lookup(key)
	require.True(t, ok, "no session under %s", key)
	return s
}

func TestHandleHangman_RespondsInPlace(t *testing.T) {
	f := newFixture(t)
	i := command(CmdHangman)

	require.NoError(t, f.games.HandleHangman(f.session, i))

	resp := f.session.lastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Zero(t, resp.Data.Flags&discordgo.MessageFlagsEphemeral)
	assert.Empty(t, resp.Data.Components)

	s := f.session0(t, "response-"+i.ID)
	assert.Equal(t, resp.Data.Content, s.Game.Render())
	assert.Equal(t, "chan", s.ChannelID)
	assert.Empty(t, s.ThreadID)
	assert.Equal(t, "1", s.Game.OwnerID())
	assert.False(t, s.Game.InThread())
	assert.Empty(t, f.session.threads)
}

func TestHandleHangman_CreatesThread(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.games.HandleHangman(f.session, command(CmdHangman, boolOpt("thread", true), boolOpt("multiguesser", true))))

	resp := f.session.lastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, "Starting hangman game in thread!", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)

	require.Len(t, f.session.threads, 1)
	assert.Equal(t, "Hangman", f.session.threads[0].Name)
	assert.Equal(t, discordgo.ChannelTypeGuildPublicThread, f.session.threads[0].Type)

	require.Len(t, f.session.sent["thread-1"], 1)
	byThread := f.session0(t, "thread-1")
	byMessage := f.session0(t, "msg-2")
	assert.Same(t, byThread, byMessage)
	assert.Equal(t, "thread-1", byThread.ChannelID)
	assert.True(t, byThread.Game.InThread())
	assert.True(t, byThread.Game.Multiguesser())
}

func TestHandleMastermind_InMatchingThread(t *testing.T) {
	f := newFixture(t)
	f.session.channels["chan"] = &discordgo.Channel{ID: "chan", Name: "Mastermind", Type: discordgo.ChannelTypeGuildPublicThread}
	i := command(CmdMastermind, intOpt("digits", 6))

	require.NoError(t, f.games.HandleMastermind(f.session, i))

	assert.Empty(t, f.session.threads)
	s := f.session0(t, "response-"+i.ID)
	assert.Equal(t, "chan", s.ThreadID)
	assert.Same(t, s, f.session0(t, "chan"))
	assert.True(t, s.Game.InThread(), "a matching thread counts as the game thread")
}

func TestHandleMastermind_OtherThread(t *testing.T) {
	f := newFixture(t)
	f.session.channels["chan"] = &discordgo.Channel{ID: "chan", Name: "Chatter", Type: discordgo.ChannelTypeGuildPublicThread}
	i := command(CmdMastermind, boolOpt("thread", true))

	require.NoError(t, f.games.HandleMastermind(f.session, i))

	assert.Empty(t, f.session.threads, "threads cannot be nested")
	s := f.session0(t, "response-"+i.ID)
	assert.Empty(t, s.ThreadID)
	assert.False(t, s.Game.InThread())
}

func TestHandleWords_DirectMessageIgnoresThread(t *testing.T) {
	f := newFixture(t)
	i := command(CmdWords, stringOpt("minigame", "missing_vowels"), boolOpt("thread", true))
	i.GuildID = ""
	i.User = i.Member.User
	i.Member = nil

	require.NoError(t, f.games.HandleWords(f.session, i))

	assert.Empty(t, f.session.threads)
	s := f.session0(t, "response-"+i.ID)
	assert.Equal(t, "1", s.Game.OwnerID())
	assert.Equal(t, "Words", s.Game.Name())
	assert.False(t, s.Game.InThread())
}

func TestHandleWords_UnknownMinigame(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.games.HandleWords(f.session, command(CmdWords, stringOpt("minigame", "anagrams"))))

	resp := f.session.lastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Contains(t, resp.Data.Content, "Unknown minigame")
	assert.Zero(t, f.registry.Count())
}

func TestHandleMinesweeper(t *testing.T) {
	f := newFixture(t)
	i := command(CmdMinesweeper, intOpt("grid_size", 5), intOpt("bomb_count", 3))

	require.NoError(t, f.games.HandleMinesweeper(f.session, i))

	resp := f.session.lastResponse()
	require.NotNil(t, resp)
	require.Len(t, resp.Data.Components, 1)
	row := resp.Data.Components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.Equal(t, "game:flag", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "game:reveal", row.Components[1].(discordgo.Button).CustomID)

	s := f.session0(t, "response-"+i.ID)
	assert.Equal(t, "Minesweeper", s.Game.Name())
}

func TestHandleTicTacToe_RejectsBots(t *testing.T) {
	f := newFixture(t)
	i := command(CmdTicTacToe, userOpt("user", "99"))
	data := i.Data.(discordgo.ApplicationCommandInteractionData)
	data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Users: map[string]*discordgo.User{"99": {ID: "99", Bot: true}},
	}
	i.Data = data

	require.NoError(t, f.games.HandleTicTacToe(f.session, i))

	resp := f.session.lastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, "❌ Bots cannot be challenged.", resp.Data.Content)
	assert.Zero(t, f.registry.Count())
}

func TestHandleComponent_PlaysTicTacToe(t *testing.T) {
	f := newFixture(t)
	i := command(CmdTicTacToe, userOpt("user", "2"))
	require.NoError(t, f.games.HandleTicTacToe(f.session, i))
	msgID := "response-" + i.ID

	resp := f.session.lastResponse()
	require.Len(t, resp.Data.Components, 3)
	assert.Contains(t, resp.Data.Content, "<@2> You have been challenged to Tic Tac Toe!")

	moves := []struct{ user, cell string }{
		{"1", "0"}, {"2", "3"}, {"1", "1"}, {"2", "4"}, {"1", "2"},
	}
	for _, m := range moves {
		require.NoError(t, f.games.HandleComponent(f.session, press(m.user, "chan", msgID, "game:"+m.cell)))
		assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, f.session.lastResponse().Type)
	}

	require.Len(t, f.session.edits, len(moves))
	last := f.session.lastEdit()
	assert.Equal(t, msgID, last.ID)
	assert.Contains(t, *last.Content, "<@1> is the winner!")
	require.NotNil(t, last.Components)
	for _, c := range *last.Components {
		for _, b := range c.(discordgo.ActionsRow).Components {
			assert.True(t, b.(discordgo.Button).Disabled)
		}
	}

	_, ok := f.registry.Lookup(msgID)
	assert.False(t, ok)

	require.NoError(t, f.games.HandleComponent(f.session, press("2", "chan", msgID, "game:5")))
	resp = f.session.lastResponse()
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Contains(t, resp.Data.Content, "no longer running")
}

func TestHandleComponent_RepeatedPickIsEphemeral(t *testing.T) {
	f := newFixture(t)
	i := command(CmdRPSChallenge, userOpt("user", "2"))
	require.NoError(t, f.games.HandleRPSChallenge(f.session, i))
	msgID := "response-" + i.ID

	require.NoError(t, f.games.HandleComponent(f.session, press("1", "chan", msgID, "game:rock")))
	assert.Empty(t, f.session.followups)
	edits := len(f.session.edits)

	require.NoError(t, f.games.HandleComponent(f.session, press("1", "chan", msgID, "game:paper")))
	require.Len(t, f.session.followups, 1)
	notice := f.session.followups[0]
	assert.Equal(t, discordgo.MessageFlagsEphemeral, notice.Flags)
	assert.Contains(t, notice.Content, "already made")
	assert.Len(t, f.session.edits, edits, "the game message is not redrawn")

	require.NoError(t, f.games.HandleComponent(f.session, press("3", "chan", msgID, "game:rock")))
	assert.Len(t, f.session.followups, 1, "outsiders get no notice")
}

func TestHandleRPSChallenge_RejectsSelf(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.games.HandleRPSChallenge(f.session, command(CmdRPSChallenge, userOpt("user", "1"))))
	resp := f.session.lastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, "❌ You cannot challenge yourself.", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)

	require.NoError(t, f.games.HandleTicTacToe(f.session, command(CmdTicTacToe, userOpt("user", "1"))))
	assert.Equal(t, "❌ You cannot challenge yourself.", f.session.lastResponse().Data.Content)
	assert.Zero(t, f.registry.Count())
}

func TestHandleComponent_IgnoresForeignButtons(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.games.HandleComponent(f.session, press("1", "chan", "m", "poll:yes")))
	assert.Empty(t, f.session.responses)
}

func TestOutbound_NotifyAlreadyMade(t *testing.T) {
	f := newFixture(t)
	out := NewOutbound(f.session, f.cleaner, 10*time.Second)

	err := out.NotifyAlreadyMade(t.Context(), dispatch.Inbound{AuthorID: "1", ChannelID: "chan", MessageID: "m", Content: "e"})
	require.NoError(t, err)

	require.Len(t, f.session.sent["chan"], 1)
	notice := f.session.sent["chan"][0]
	assert.Equal(t, "<@1> Your guess e has already been made.", notice.Content)
	assert.Equal(t, []string{"1"}, notice.AllowedMentions.Users)
	assert.Equal(t, 1, f.cleaner.Pending())

	assert.Zero(t, f.cleaner.Clean(t.Context(), f.session, time.Now()))
	assert.Equal(t, 1, f.cleaner.Clean(t.Context(), f.session, time.Now().Add(11*time.Second)))
	assert.Equal(t, []string{"msg-1"}, f.session.deleted)
}

func TestOutbound_EditTextGameClearsComponents(t *testing.T) {
	f := newFixture(t)
	i := command(CmdHangman)
	require.NoError(t, f.games.HandleHangman(f.session, i))
	s := f.session0(t, "response-"+i.ID)

	out := NewOutbound(f.session, nil, 0)
	require.NoError(t, out.EditGame(t.Context(), s))

	edit := f.session.lastEdit()
	require.NotNil(t, edit)
	assert.Equal(t, s.MessageID, edit.ID)
	assert.Equal(t, s.ChannelID, edit.Channel)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)
}
