package bot

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/config"
	"discord-game-bot/internal/handler"
)

// Middleware wraps a handler with extra behaviour.
type Middleware func(next handler.HandlerFunc) handler.HandlerFunc

// Chain applies mws to h so that the first middleware runs first.
func Chain(h handler.HandlerFunc, mws ...Middleware) handler.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// PrivateUsers remembers users who used the bot in a whitelisted guild.
// They may then use it in direct messages as well.
type PrivateUsers struct {
	users map[string]struct{}
	mu    sync.RWMutex
}

// NewPrivateUsers creates an empty cache.
func NewPrivateUsers() *PrivateUsers {
	return &PrivateUsers{users: make(map[string]struct{})}
}

// Allow marks a user as allowed in direct messages.
func (p *PrivateUsers) Allow(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[userID] = struct{}{}
}

// IsAllowed checks if a user may use the bot in direct messages.
func (p *PrivateUsers) IsAllowed(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.users[userID]
	return ok
}

// WhitelistMiddleware ignores interactions from guilds and channels that are
// not whitelisted.
func WhitelistMiddleware(cfg *config.Config, private *PrivateUsers) Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(s handler.Session, i *discordgo.InteractionCreate) error {
			user := interactionUser(i)
			if user == nil {
				return nil
			}

			if i.GuildID == "" {
				open := len(cfg.Whitelist.Guilds) == 0 && len(cfg.Whitelist.Channels) == 0
				if open || private.IsAllowed(user.ID) {
					return next(s, i)
				}
				log.Debug().
					Str("user_id", user.ID).
					Msg("Ignoring direct message from user not in whitelist cache")
				return handler.RespondError(s, i, "This bot is not available here.")
			}

			if !cfg.IsChatAllowed(i.GuildID, i.ChannelID) {
				log.Debug().
					Str("guild_id", i.GuildID).
					Str("channel_id", i.ChannelID).
					Msg("Ignoring interaction from non-whitelisted channel")
				return handler.RespondError(s, i, "This bot is not available here.")
			}

			private.Allow(user.ID)
			return next(s, i)
		}
	}
}

// AdminMiddleware refuses the command unless the user is an admin.
func AdminMiddleware(cfg *config.Config) Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(s handler.Session, i *discordgo.InteractionCreate) error {
			user := interactionUser(i)
			if user == nil {
				return nil
			}

			if !cfg.IsAdmin(user.ID) {
				log.Warn().
					Str("user_id", user.ID).
					Str("command", commandName(i)).
					Msg("Non-admin attempted admin command")
				return handler.RespondError(s, i, "You do not have permission to use this command.")
			}

			return next(s, i)
		}
	}
}

// LoggingMiddleware logs every interaction and how long it took.
func LoggingMiddleware() Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(s handler.Session, i *discordgo.InteractionCreate) error {
			start := time.Now()
			err := next(s, i)

			logEvent := log.Debug()
			if err != nil {
				logEvent = log.Error().Err(err)
			}
			if user := interactionUser(i); user != nil {
				logEvent = logEvent.
					Str("user_id", user.ID).
					Str("username", user.Username)
			}
			logEvent.
				Str("guild_id", i.GuildID).
				Str("channel_id", i.ChannelID).
				Str("interaction", i.Type.String()).
				Str("command", commandName(i)).
				Dur("duration", time.Since(start)).
				Msg("Handled interaction")

			return err
		}
	}
}

// RecoveryMiddleware recovers from panics in handlers.
func RecoveryMiddleware() Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(s handler.Session, i *discordgo.InteractionCreate) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("command", commandName(i)).
						Msg("Recovered from panic in handler")
					err = handler.RespondError(s, i, "An internal error occurred, please try again later.")
				}
			}()
			return next(s, i)
		}
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// commandName returns the slash command name, or the custom id of a
// pressed component.
func commandName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	default:
		return ""
	}
}
