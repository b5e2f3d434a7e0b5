package handler

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// DefaultCleanInterval is how often the cleaner looks for expired messages.
const DefaultCleanInterval = time.Second

// TrackedMessage represents a message to be deleted later.
type TrackedMessage struct {
	ChannelID string
	MessageID string
	DeleteAt  time.Time
}

// MessageCleaner deletes short-lived bot messages once they expire.
type MessageCleaner struct {
	interval time.Duration
	messages []TrackedMessage
	mu       sync.Mutex
}

// NewMessageCleaner creates a cleaner that checks every interval.
func NewMessageCleaner(interval time.Duration) *MessageCleaner {
	if interval <= 0 {
		interval = DefaultCleanInterval
	}
	return &MessageCleaner{interval: interval}
}

// Track schedules a message for deletion after ttl.
func (c *MessageCleaner) Track(channelID, messageID string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, TrackedMessage{
		ChannelID: channelID,
		MessageID: messageID,
		DeleteAt:  time.Now().Add(ttl),
	})
}

// Pending returns how many messages are waiting for deletion.
func (c *MessageCleaner) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Start runs the cleaner until ctx is cancelled. Messages still tracked at
// that point are deleted before it returns.
func (c *MessageCleaner) Start(ctx context.Context, s Session) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.Clean(context.Background(), s, time.Time{})
				return
			case <-ticker.C:
				c.Clean(ctx, s, time.Now())
			}
		}
	}()
}

// Clean deletes every message due at now and returns how many were removed.
// A zero now flushes all tracked messages.
func (c *MessageCleaner) Clean(ctx context.Context, s Session, now time.Time) int {
	c.mu.Lock()
	var due []TrackedMessage
	remaining := c.messages[:0]
	for _, msg := range c.messages {
		if now.IsZero() || !now.Before(msg.DeleteAt) {
			due = append(due, msg)
		} else {
			remaining = append(remaining, msg)
		}
	}
	c.messages = remaining
	c.mu.Unlock()

	for _, msg := range due {
		err := s.ChannelMessageDelete(msg.ChannelID, msg.MessageID, discordgo.WithContext(ctx))
		if err != nil {
			log.Debug().Err(err).Str("message_id", msg.MessageID).Msg("Failed to delete expired message")
		}
	}
	return len(due)
}
