package handler

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-game-bot/internal/game"
)

func TestCommands_Catalog(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range Commands() {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true

		assert.Equal(t, strings.ToLower(cmd.Name), cmd.Name)
		assert.NotEmpty(t, cmd.Description, cmd.Name)
		assert.LessOrEqual(t, len(cmd.Description), 100, cmd.Name)
		_, ok := commandInfo[cmd.Name]
		assert.True(t, ok, "no help for %s", cmd.Name)

		for _, opt := range cmd.Options {
			assert.Equal(t, strings.ToLower(opt.Name), opt.Name)
			assert.LessOrEqual(t, len(opt.Description), 100, "%s %s", cmd.Name, opt.Name)
		}
	}
	assert.Len(t, seen, len(commandInfo))
}

func TestCommands_ChallengesAreGuildOnly(t *testing.T) {
	for _, cmd := range Commands() {
		switch cmd.Name {
		case CmdCheckers, CmdTicTacToe, CmdRPSChallenge:
			require.NotNil(t, cmd.Contexts, cmd.Name)
			assert.Equal(t, []discordgo.InteractionContextType{discordgo.InteractionContextGuild}, *cmd.Contexts)
		}
	}
}

func TestComponents(t *testing.T) {
	rows := [][]game.Action{
		{
			{ID: "a", Label: "A", Style: game.StylePrimary},
			{ID: "b", Emoji: "⚪", Style: game.StyleDanger, Disabled: true},
		},
		{},
		{{ID: "c", Label: "C", Style: game.StyleSuccess}},
	}

	components := Components(rows)
	require.Len(t, components, 2, "empty rows are dropped")

	first := components[0].(discordgo.ActionsRow)
	require.Len(t, first.Components, 2)
	a := first.Components[0].(discordgo.Button)
	assert.Equal(t, "game:a", a.CustomID)
	assert.Equal(t, discordgo.PrimaryButton, a.Style)
	assert.Nil(t, a.Emoji)

	b := first.Components[1].(discordgo.Button)
	assert.Equal(t, discordgo.DangerButton, b.Style)
	assert.True(t, b.Disabled)
	require.NotNil(t, b.Emoji)
	assert.Equal(t, "⚪", b.Emoji.Name)

	c := components[1].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, discordgo.SuccessButton, c.Style)
}

func TestActionID(t *testing.T) {
	tests := []struct {
		customID string
		want     string
		ok       bool
	}{
		{"game:reveal", "reveal", true},
		{"game:4", "4", true},
		{"game:", "", false},
		{"poll:yes", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.customID, func(t *testing.T) {
			got, ok := ActionID(tt.customID)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHelp_Overview(t *testing.T) {
	h := NewHelpHandler(Commands())
	out := h.Overview()

	assert.True(t, strings.HasPrefix(out, "```Game bot help:\n\nAvailable commands:\n"))
	assert.True(t, strings.HasSuffix(out, "```"))
	for _, cmd := range Commands() {
		assert.Contains(t, out, cmd.Name)
		assert.Contains(t, out, "    "+groupOf(cmd.Name)+":\n")
	}
}

func TestHelp_Details(t *testing.T) {
	h := NewHelpHandler(Commands())

	out, ok := h.Details(CmdMinesweeper)
	require.True(t, ok)
	assert.Contains(t, out, "minesweeper command info:")
	assert.Contains(t, out, "Description: "+commandInfo[CmdMinesweeper].Details)
	assert.Contains(t, out, "    grid_size: ")

	out, ok = h.Details(CmdTicTacToe)
	require.True(t, ok)
	assert.Contains(t, out, "    user (required): User to challenge")

	out, ok = h.Details(CmdCheckers)
	require.True(t, ok)
	assert.Contains(t, out, "must keep capturing while it can")
	assert.NotContains(t, out, "mandatory", "captures are only forced within a chain")

	_, ok = h.Details("poker")
	assert.False(t, ok)
}

func TestHandleHelp(t *testing.T) {
	h := NewHelpHandler(Commands())
	s := newMockSession()

	require.NoError(t, h.HandleHelp(s, command(CmdHelp)))
	resp := s.lastResponse()
	assert.Equal(t, h.Overview(), resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)

	require.NoError(t, h.HandleHelp(s, command(CmdHelp, stringOpt("command", "/hangman"), boolOpt("public", true))))
	resp = s.lastResponse()
	assert.Contains(t, resp.Data.Content, "hangman command info:")
	assert.Zero(t, resp.Data.Flags)

	require.NoError(t, h.HandleHelp(s, command(CmdHelp, stringOpt("command", "poker"), boolOpt("public", true))))
	resp = s.lastResponse()
	assert.Equal(t, "poker is not a valid command.", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}
