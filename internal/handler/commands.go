package handler

import (
	"github.com/bwmarrin/discordgo"

	"discord-game-bot/internal/game/mastermind"
	"discord-game-bot/internal/game/minesweeper"
)

// Command names.
const (
	CmdCheckers     = "checkers"
	CmdHangman      = "hangman"
	CmdMastermind   = "mastermind"
	CmdWords        = "words"
	CmdMinesweeper  = "minesweeper"
	CmdTicTacToe    = "tictactoe"
	CmdRPSChallenge = "rpschallenge"
	CmdHelp         = "help"
	CmdReload       = "reload"
	CmdStats        = "stats"
)

// CommandInfo describes a command for /help.
type CommandInfo struct {
	Group   string
	Details string
}

// commandInfo holds the help text shown by /help <command>.
var commandInfo = map[string]CommandInfo{
	CmdCheckers: {"Checkers", "Challenge someone to checkers. Pick a token and a destination " +
		"with the buttons, or reply with a move such as C3, D4. After a capture, the same " +
		"token must keep capturing while it can."},
	CmdHangman: {"Hangman", "Guess the hidden word one letter at a time by replying to the " +
		"game message. Five wrong letters and the game is lost."},
	CmdMastermind: {"Mastermind", "Guess the secret number. Each guess reports how many digits " +
		"are correctly positioned and how many are correct but misplaced. In higher or " +
		"lower mode only too small or too big is reported."},
	CmdWords: {"Words", "Find the hidden word. missing_vowels hides every vowel, unscramble " +
		"shuffles the letters. Each guess reports how many letters are in the right place."},
	CmdMinesweeper: {"Minesweeper", "Clear the grid without revealing a bomb. Use the buttons or " +
		"reply with C7 to reveal a square or fB2 to flag it. The first square is always safe."},
	CmdTicTacToe:    {"Tic Tac Toe", "Challenge someone to tic tac toe. The challenger moves first."},
	CmdRPSChallenge: {"Rock Paper Scissors", "Challenge someone to rock paper scissors. Picks stay hidden until both players chose."},
	CmdHelp:         {"Help", "List the available commands, or show details for one command."},
	CmdReload:       {"Admin", "Stop every running game and reload the word list. Admins only."},
	CmdStats:        {"Stats", "Show how many games a player played and won."},
}

// threadOption is shared by the games that can run in their own thread.
var threadOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionBoolean,
	Name:        "thread",
	Description: "Automatically create a thread",
}

var multiguesserOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionBoolean,
	Name:        "multiguesser",
	Description: "Allow anyone to guess",
}

func challengeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "User to challenge",
		Required:    true,
	}
}

func floatPtr(v float64) *float64 { return &v }

// Commands returns the slash command catalog registered with Discord.
func Commands() []*discordgo.ApplicationCommand {
	guildOnly := &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CmdCheckers,
			Description: "Play a game of Checkers",
			Contexts:    guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				challengeOption(),
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "legacy",
					Description: "Support legacy mobile devices",
				},
				threadOption,
			},
		},
		{
			Name:        CmdHangman,
			Description: "Play a game of hangman",
			Options:     []*discordgo.ApplicationCommandOption{multiguesserOption, threadOption},
		},
		{
			Name:        CmdMastermind,
			Description: "Play a game of Mastermind",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "digits",
					Description: "Number of digits in the secret number",
					MinValue:    floatPtr(mastermind.MinDigits),
					MaxValue:    mastermind.MaxDigits,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "higher_or_lower",
					Description: "Only say whether a guess is too small or too big",
				},
				multiguesserOption,
				threadOption,
			},
		},
		{
			Name:        CmdWords,
			Description: "Play a word manipulation minigame",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "minigame",
					Description: "Which word manipulation minigame to start",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "missing_vowels", Value: "missing_vowels"},
						{Name: "unscramble", Value: "unscramble"},
					},
				},
				multiguesserOption,
				threadOption,
			},
		},
		{
			Name:        CmdMinesweeper,
			Description: "Play Minesweeper",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "grid_size",
					Description: "Size of minesweeper grid",
					MinValue:    floatPtr(minesweeper.MinSize),
					MaxValue:    minesweeper.MaxSize,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bomb_count",
					Description: "Number of bombs in the grid",
					MinValue:    floatPtr(minesweeper.MinBombs),
					MaxValue:    minesweeper.MaxBombs,
				},
			},
		},
		{
			Name:        CmdTicTacToe,
			Description: "Challenge a user to tic tac toe",
			Contexts:    guildOnly,
			Options:     []*discordgo.ApplicationCommandOption{challengeOption()},
		},
		{
			Name:        CmdRPSChallenge,
			Description: "Challenge a user to rock paper scissors",
			Contexts:    guildOnly,
			Options:     []*discordgo.ApplicationCommandOption{challengeOption()},
		},
		{
			Name:        CmdHelp,
			Description: "Provide information about available commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "command",
					Description: "Show detailed info for a single command",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "public",
					Description: "Show response publicly",
				},
			},
		},
		{
			Name:        CmdReload,
			Description: "Stop running games and reload the word list",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "list_games",
					Description: "Show the games that were stopped",
				},
			},
		},
		{
			Name:        CmdStats,
			Description: "Show game statistics",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose statistics to show, defaults to you",
				},
			},
		},
	}
}

// options indexes the invoked command's options by name.
type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionsOf(i *discordgo.InteractionCreate) options {
	data := i.ApplicationCommandData()
	opts := make(options, len(data.Options))
	for _, o := range data.Options {
		opts[o.Name] = o
	}
	return opts
}

func (o options) boolValue(name string) bool {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionBoolean {
		return opt.BoolValue()
	}
	return false
}

func (o options) intValue(name string, fallback int) int {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionInteger {
		return int(opt.IntValue())
	}
	return fallback
}

func (o options) stringValue(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionString {
		return opt.StringValue()
	}
	return ""
}

func (o options) userID(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionUser {
		return opt.UserValue(nil).ID
	}
	return ""
}
