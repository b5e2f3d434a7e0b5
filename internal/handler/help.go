package handler

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const helpTitle = "Game bot help:"

// HelpHandler handles the /help command.
type HelpHandler struct {
	commands []*discordgo.ApplicationCommand
}

// NewHelpHandler creates a HelpHandler describing commands.
func NewHelpHandler(commands []*discordgo.ApplicationCommand) *HelpHandler {
	return &HelpHandler{commands: commands}
}

// HandleHelp lists every command, or describes the one named in the
// "command" option.
func (h *HelpHandler) HandleHelp(s Session, i *discordgo.InteractionCreate) error {
	opts := optionsOf(i)
	ephemeral := !opts.boolValue("public")

	name := strings.TrimPrefix(strings.TrimSpace(opts.stringValue("command")), "/")
	if name == "" {
		return respond(s, i, h.Overview(), ephemeral)
	}

	text, ok := h.Details(name)
	if !ok {
		return respond(s, i, fmt.Sprintf("%s is not a valid command.", name), true)
	}
	return respond(s, i, text, ephemeral)
}

// Overview lists the commands grouped the way they are registered.
func (h *HelpHandler) Overview() string {
	width := 0
	for _, cmd := range h.commands {
		width = max(width, len(cmd.Name))
	}

	var sb strings.Builder
	sb.WriteString("```" + helpTitle + "\n\nAvailable commands:\n")

	group := ""
	for _, cmd := range h.commands {
		if g := groupOf(cmd.Name); g != group {
			group = g
			fmt.Fprintf(&sb, "    %s:\n", group)
		}
		fmt.Fprintf(&sb, "        %-*s    %s\n", width, cmd.Name, cmd.Description)
	}
	sb.WriteString("```")
	return sb.String()
}

// Details describes a single command and its options.
func (h *HelpHandler) Details(name string) (string, bool) {
	var cmd *discordgo.ApplicationCommand
	for _, c := range h.commands {
		if c.Name == name {
			cmd = c
			break
		}
	}
	if cmd == nil {
		return "", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "```%s\n\n%s command info:\n", helpTitle, cmd.Name)
	if info, ok := commandInfo[cmd.Name]; ok && info.Details != "" {
		fmt.Fprintf(&sb, "Description: %s\n", info.Details)
	} else {
		fmt.Fprintf(&sb, "Description: %s\n", cmd.Description)
	}
	if len(cmd.Options) > 0 {
		sb.WriteString("Options:\n")
		for _, opt := range cmd.Options {
			required := ""
			if opt.Required {
				required = " (required)"
			}
			fmt.Fprintf(&sb, "    %s%s: %s\n", opt.Name, required, opt.Description)
		}
	}
	sb.WriteString("```")
	return sb.String(), true
}

func groupOf(name string) string {
	if info, ok := commandInfo[name]; ok {
		return info.Group
	}
	return "Other"
}
