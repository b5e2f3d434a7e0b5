package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session ties a running game to the chat message (and optional thread) that
// displays it.
type Session struct {
	ID        uuid.UUID
	Game      Game
	ChannelID string
	MessageID string
	// ThreadID is set when the game runs in a dedicated thread; the thread id
	// is then registered as a second key for the same session.
	ThreadID  string
	CreatedAt time.Time
}

// NewSession creates a session for g with a fresh id.
func NewSession(g Game, channelID, messageID string) *Session {
	return &Session{
		ID:        uuid.New(),
		Game:      g,
		ChannelID: channelID,
		MessageID: messageID,
		CreatedAt: time.Now(),
	}
}

// Keys returns every registry key the session is reachable under.
func (s *Session) Keys() []string {
	keys := make([]string, 0, 2)
	if s.MessageID != "" {
		keys = append(keys, s.MessageID)
	}
	if s.ThreadID != "" && s.ThreadID != s.MessageID {
		keys = append(keys, s.ThreadID)
	}
	return keys
}

// Registry maps session keys (message or thread ids) to live sessions.
// It is safe for concurrent use.
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Add registers s under key. An existing entry for key is replaced.
func (r *Registry) Add(key string, s *Session) {
	if key == "" || s == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key] = s
}

// Register adds s under all of its keys at once.
func (r *Registry) Register(s *Session) {
	if s == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range s.Keys() {
		r.sessions[key] = s
	}
}

// Remove drops key. Removing an unknown key is a no-op.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// RemoveSession drops every key of s in one step. Keys that were since
// reassigned to another session are left alone.
func (r *Registry) RemoveSession(s *Session) {
	if s == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range s.Keys() {
		if r.sessions[key] == s {
			delete(r.sessions, key)
		}
	}
}

// Lookup returns the session stored under key.
func (r *Registry) Lookup(key string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Sessions returns the distinct live sessions.
// The returned slice is a copy, so modifications won't affect the registry.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.distinct()
}

// distinct lists every session once, however many keys it is reachable
// under. Callers hold r.mu.
func (r *Registry) distinct() []*Session {
	seen := make(map[*Session]struct{}, len(r.sessions))
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Count returns the number of registered keys.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Drain removes every session and returns the distinct sessions that were
// live. A session registered concurrently is either returned or stays
// registered, never lost.
func (r *Registry) Drain() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.distinct()
	r.sessions = make(map[string]*Session)
	return out
}
