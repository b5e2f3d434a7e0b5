package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-game-bot/internal/dispatch"
	"discord-game-bot/internal/game"
)

// Outbound applies dispatcher side effects through a Discord session.
type Outbound struct {
	session   Session
	cleaner   *MessageCleaner
	noticeTTL time.Duration
}

var _ dispatch.Outbound = (*Outbound)(nil)

// NewOutbound creates an Outbound. Notices are removed by cleaner after
// noticeTTL.
func NewOutbound(s Session, cleaner *MessageCleaner, noticeTTL time.Duration) *Outbound {
	return &Outbound{
		session:   s,
		cleaner:   cleaner,
		noticeTTL: noticeTTL,
	}
}

// EditGame rewrites the game message with the current render and buttons.
func (o *Outbound) EditGame(ctx context.Context, s *game.Session) error {
	content := s.Game.Render()
	components := gameComponents(s.Game)

	edit := discordgo.NewMessageEdit(s.ChannelID, s.MessageID).SetContent(content)
	edit.Components = &components

	if _, err := o.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit game message: %w", err)
	}
	return nil
}

// DeleteMessage removes a consumed guess.
func (o *Outbound) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := o.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// NotifyAlreadyMade posts a short-lived notice. Regular messages cannot be
// ephemeral, so the notice is deleted after the configured TTL instead.
func (o *Outbound) NotifyAlreadyMade(ctx context.Context, in dispatch.Inbound) error {
	msg, err := o.session.ChannelMessageSendComplex(in.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("%s Your guess %s has already been made.", game.Mention(in.AuthorID), in.Content),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{in.AuthorID},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send notice: %w", err)
	}

	if o.cleaner != nil && o.noticeTTL > 0 {
		o.cleaner.Track(in.ChannelID, msg.ID, o.noticeTTL)
	}
	return nil
}
