package handler

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-game-bot/internal/game"
)

// actionPrefix marks component custom ids that carry a game action.
const actionPrefix = "game:"

var buttonStyles = map[game.ActionStyle]discordgo.ButtonStyle{
	game.StylePrimary:   discordgo.PrimaryButton,
	game.StyleSecondary: discordgo.SecondaryButton,
	game.StyleSuccess:   discordgo.SuccessButton,
	game.StyleDanger:    discordgo.DangerButton,
}

// Components turns action rows into Discord button rows. Action ids must be
// unique within one message.
func Components(rows [][]game.Action) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, a := range row {
			b := discordgo.Button{
				Label:    a.Label,
				Style:    buttonStyles[a.Style],
				CustomID: actionPrefix + a.ID,
				Disabled: a.Disabled,
			}
			if a.Emoji != "" {
				b.Emoji = &discordgo.ComponentEmoji{Name: a.Emoji}
			}
			buttons = append(buttons, b)
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return components
}

// gameComponents returns the buttons for g, or none for text-only games.
func gameComponents(g game.Game) []discordgo.MessageComponent {
	ig, ok := g.(game.Interactive)
	if !ok {
		return []discordgo.MessageComponent{}
	}
	return Components(ig.Actions())
}

// ActionID extracts the game action from a component custom id.
func ActionID(customID string) (string, bool) {
	id, ok := strings.CutPrefix(customID, actionPrefix)
	return id, ok && id != ""
}
