package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/game"
	"discord-game-bot/internal/model"
	"discord-game-bot/internal/service"
)

// StatsReader reads per-user game statistics.
type StatsReader interface {
	StatsForUser(ctx context.Context, userID string) ([]*model.GameStats, error)
}

// StatsHandler handles the /stats command.
type StatsHandler struct {
	stats StatsReader
}

// NewStatsHandler creates a new StatsHandler. A nil reader means results
// are not stored and the command says so.
func NewStatsHandler(stats StatsReader) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles the /stats command.
// Displays how many games of each kind a player played and won.
func (h *StatsHandler) HandleStats(s Session, i *discordgo.InteractionCreate) error {
	if h.stats == nil {
		return respond(s, i, "Game statistics are not enabled on this bot.", true)
	}

	userID := optionsOf(i).userID("user")
	if userID == "" {
		userID = userOf(i).ID
	}

	stats, err := h.stats.StatsForUser(context.Background(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load stats")
		return RespondError(s, i, "Failed to load statistics, please try again later.")
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         FormatStats(userID, stats),
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

// FormatStats renders stats as a table.
func FormatStats(userID string, stats []*model.GameStats) string {
	if len(stats) == 0 {
		return fmt.Sprintf("%s has not finished any games yet.", game.Mention(userID))
	}

	width := len("Total")
	for _, st := range stats {
		width = max(width, len(st.Game))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Game statistics for %s\n```\n", game.Mention(userID))
	fmt.Fprintf(&sb, "%-*s  %6s  %4s\n", width, "Game", "Played", "Won")
	for _, st := range stats {
		fmt.Fprintf(&sb, "%-*s  %6d  %4d\n", width, st.Game, st.Played, st.Won)
	}
	played, won := service.Totals(stats)
	fmt.Fprintf(&sb, "%-*s  %6d  %4d\n```", width, "Total", played, won)
	return sb.String()
}
