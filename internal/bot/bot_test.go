package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-game-bot/internal/config"
	"discord-game-bot/internal/dispatch"
	"discord-game-bot/internal/game"
	"discord-game-bot/internal/game/hangman"
	"discord-game-bot/internal/handler"
	"discord-game-bot/internal/pkg/lock"
	"discord-game-bot/internal/words"
)

// recordingSession stands in for a Discord connection.
type recordingSession struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.MessageEdit
	deleted   []string
}

func (r *recordingSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	return nil
}

func (r *recordingSession) InteractionResponse(i *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "response-" + i.ID, ChannelID: i.ChannelID}, nil
}

func (r *recordingSession) InteractionResponseEdit(*discordgo.Interaction, *discordgo.WebhookEdit, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func (r *recordingSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{Content: data.Content}, nil
}

func (r *recordingSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: channelID, Type: discordgo.ChannelTypeGuildText}, nil
}

func (r *recordingSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "sent", ChannelID: channelID, Content: data.Content}, nil
}

func (r *recordingSession) ChannelMessageEditComplex(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, edit)
	return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
}

func (r *recordingSession) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, messageID)
	return nil
}

func (r *recordingSession) ThreadStartComplex(channelID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "thread", ParentID: channelID, Name: data.Name, Type: data.Type}, nil
}

func slashCommand(name, guildID, channelID, userID string) *discordgo.InteractionCreate {
	i := &discordgo.Interaction{
		ID:        "i-" + name + "-" + userID,
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: channelID,
		Data:      discordgo.ApplicationCommandInteractionData{Name: name},
	}
	user := &discordgo.User{ID: userID}
	if guildID == "" {
		i.User = user
	} else {
		i.Member = &discordgo.Member{User: user}
	}
	return &discordgo.InteractionCreate{Interaction: i}
}

type testBot struct {
	bot      *Bot
	session  *recordingSession
	registry *game.Registry
}

func newTestBot(t *testing.T, cfg *config.Config) *testBot {
	t.Helper()

	ds, err := NewSession(&config.BotConfig{Token: "test-token"})
	require.NoError(t, err)

	list, err := words.FromWords([]string{"gopher"})
	require.NoError(t, err)

	rs := &recordingSession{}
	registry := game.NewRegistry()
	locks := lock.NewKeyLock()
	cleaner := handler.NewMessageCleaner(time.Hour)
	d := dispatch.New(registry, locks, handler.NewOutbound(rs, cleaner, time.Second))

	b, err := New(&Dependencies{
		Config:       cfg,
		Session:      ds,
		Dispatcher:   d,
		Cleaner:      cleaner,
		GameHandler:  handler.NewGameHandler(cfg, registry, d, list),
		HelpHandler:  handler.NewHelpHandler(handler.Commands()),
		AdminHandler: handler.NewAdminHandler(registry, locks, list),
		StatsHandler: handler.NewStatsHandler(nil),
	})
	require.NoError(t, err)
	return &testBot{bot: b, session: rs, registry: registry}
}

func TestNewSession(t *testing.T) {
	_, err := NewSession(&config.BotConfig{Token: "  "})
	assert.ErrorIs(t, err, ErrEmptyToken)

	s, err := NewSession(&config.BotConfig{Token: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "Bot abc", s.Token)
	assert.Equal(t, Intents, s.Identify.Intents)

	s, err = NewSession(&config.BotConfig{Token: "Bot abc"})
	require.NoError(t, err)
	assert.Equal(t, "Bot abc", s.Token)
}

func TestNew_RequiresSession(t *testing.T) {
	_, err := New(&Dependencies{Config: &config.Config{}})
	assert.Error(t, err)
}

func TestHandleInteraction_RoutesCommands(t *testing.T) {
	cfg := &config.Config{}
	cfg.Games.Hangman.MaxMistakes = 5
	tb := newTestBot(t, cfg)

	tb.bot.handleInteraction(tb.session, slashCommand(handler.CmdHangman, "g", "c", "1"))
	assert.Equal(t, 1, tb.registry.Count())

	tb.bot.handleInteraction(tb.session, slashCommand("unknown", "g", "c", "1"))
	assert.Len(t, tb.session.responses, 1)
}

func TestHandleInteraction_ReloadIsAdminOnly(t *testing.T) {
	cfg := &config.Config{Admin: config.AdminConfig{IDs: []string{"42"}}}
	tb := newTestBot(t, cfg)
	tb.registry.Register(game.NewSession(hangman.New(hangman.Options{OwnerID: "1", Word: "go", MaxMistakes: 5}), "c", "m"))

	tb.bot.handleInteraction(tb.session, slashCommand(handler.CmdReload, "g", "c", "1"))
	require.Len(t, tb.session.responses, 1)
	assert.Contains(t, tb.session.responses[0].Data.Content, "permission")
	assert.Equal(t, 1, tb.registry.Count())

	tb.bot.handleInteraction(tb.session, slashCommand(handler.CmdReload, "g", "c", "42"))
	assert.Zero(t, tb.registry.Count())
}

func TestHandleMessage_ForwardsGuesses(t *testing.T) {
	tb := newTestBot(t, &config.Config{})
	g := hangman.New(hangman.Options{OwnerID: "1", Word: "go", MaxMistakes: 5})
	tb.registry.Register(game.NewSession(g, "c", "game-msg"))

	reply := func(id, author, content string, bot bool) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			ID:               id,
			ChannelID:        "c",
			Content:          content,
			Author:           &discordgo.User{ID: author, Bot: bot},
			MessageReference: &discordgo.MessageReference{MessageID: "game-msg", ChannelID: "c"},
		}}
	}
	ctx := context.Background()

	tb.bot.handleMessage(ctx, reply("m1", "bot", "g", true))
	tb.bot.handleMessage(ctx, reply("m2", "2", "g", false))
	assert.Empty(t, tb.session.deleted, "bots and other users are ignored")

	tb.bot.handleMessage(ctx, reply("m3", "1", "g", false))
	assert.Equal(t, []string{"m3"}, tb.session.deleted)
	require.Len(t, tb.session.edits, 1)

	tb.bot.handleMessage(ctx, reply("m4", "1", "o", false))
	assert.True(t, g.Finished())
	_, ok := tb.registry.Lookup("game-msg")
	assert.False(t, ok)
}
