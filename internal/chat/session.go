package chat

import (
	"time"

	"guardian/internal/cache"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type (
	// Turn is a single message in a conversation.
	Turn struct {
		Role    string
		Content string
		At      time.Time
	}

	session struct {
		turns []Turn
	}

	// SessionStore holds per-user conversation state with an explicit
	// lifecycle: created on first message, expired by TTL, history
	// capped to the most recent maxTurns entries.
	SessionStore struct {
		sessions *cache.LRUCache[session]
		maxTurns int
	}
)

func NewSessionStore(maxSessions int, ttl time.Duration, maxTurns int) *SessionStore {
	if maxTurns < 2 {
		maxTurns = 2
	}
	return &SessionStore{
		sessions: cache.NewLRUCache[session](maxSessions, ttl),
		maxTurns: maxTurns,
	}
}

// History returns the retained turns for a user, oldest first. A user
// without a session has empty history.
func (s *SessionStore) History(userID string) []Turn {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return nil
	}
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Append records a turn, pruning the oldest entries beyond the retention
// limit. Appending refreshes the session TTL.
func (s *SessionStore) Append(userID, role, content string) {
	sess, _ := s.sessions.Get(userID)
	sess.turns = append(sess.turns, Turn{Role: role, Content: content, At: time.Now()})
	if excess := len(sess.turns) - s.maxTurns; excess > 0 {
		sess.turns = append([]Turn(nil), sess.turns[excess:]...)
	}
	s.sessions.Set(userID, sess)
}

// Clear drops a user's session.
func (s *SessionStore) Clear(userID string) {
	s.sessions.Delete(userID)
}

// CleanExpired removes expired sessions and returns how many were dropped.
func (s *SessionStore) CleanExpired() int {
	return s.sessions.CleanExpired()
}

// Size returns the number of live sessions.
func (s *SessionStore) Size() int {
	return s.sessions.Size()
}
