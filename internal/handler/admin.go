package handler

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/game"
	"discord-game-bot/internal/pkg/lock"
	"discord-game-bot/internal/words"
)

// AdminHandler handles admin-only commands.
type AdminHandler struct {
	registry *game.Registry
	locks    *lock.KeyLock
	words    *words.List
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(registry *game.Registry, locks *lock.KeyLock, wordList *words.List) *AdminHandler {
	return &AdminHandler{
		registry: registry,
		locks:    locks,
		words:    wordList,
	}
}

// HandleReload handles the /reload command. Every running game is stopped
// and the word list is read again. If the list cannot be read the previous
// words stay in use.
func (h *AdminHandler) HandleReload(s Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	if err := respond(s, i, "Reloading...", true); err != nil {
		return err
	}

	stopped := h.stopAll(ctx, s)

	status := "Reloaded"
	if err := h.words.Reload(); err != nil {
		log.Warn().Err(err).Msg("Failed to reload word list, keeping previous words")
		status = "Reloaded in safe mode, the word list could not be read"
	}

	log.Info().
		Str("admin_id", userOf(i).ID).
		Int("stopped_games", len(stopped)).
		Int("words", h.words.Len()).
		Str("operation", "reload").
		Msg("Admin operation executed")

	content := fmt.Sprintf("%s. Stopped %d game(s), %d words loaded.", status, len(stopped), h.words.Len())
	if optionsOf(i).boolValue("list_games") && len(stopped) > 0 {
		content += "\nStopped games: " + strings.Join(stopped, ", ")
	}

	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit reload response: %w", err)
	}
	return nil
}

// stopAll drains the registry, removes the buttons from every stopped game
// and returns the sorted names of the games.
func (h *AdminHandler) stopAll(ctx context.Context, s Session) []string {
	sessions := h.registry.Drain()

	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Game.Name())
		h.locks.Forget(sess.ID.String())

		if _, ok := sess.Game.(game.Interactive); !ok {
			continue
		}
		edit := discordgo.NewMessageEdit(sess.ChannelID, sess.MessageID)
		edit.Components = &[]discordgo.MessageComponent{}
		if _, err := s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
			log.Debug().Err(err).Str("session_id", sess.ID.String()).Msg("Failed to remove buttons from stopped game")
		}
	}
	slices.Sort(names)
	return names
}
