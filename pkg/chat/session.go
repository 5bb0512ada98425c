package chat

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a conversation thread. IDs are ULIDs drawn from a
// monotonic source, so they are strictly increasing and never reused even
// if the session list is ever filtered.
type SessionID string

// Session is one conversation thread. It is owned exclusively by the
// Manager; messages are append-only and never reordered.
type Session struct {
	ID        SessionID
	Title     string
	CreatedAt time.Time

	messages []Message
}

// SessionSummary is a read-only view of a session for listing.
type SessionSummary struct {
	ID           SessionID
	Title        string
	CreatedAt    time.Time
	MessageCount int
}

func (s *Session) summary() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		MessageCount: len(s.messages),
	}
}

func (s *Session) append(msg Message) {
	s.messages = append(s.messages, msg)
}

// idSource hands out monotonic ULIDs. Guarded by its own mutex because the
// monotonic entropy reader is not safe for concurrent use.
type idSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func newIDSource(now func() time.Time) *idSource {
	seed := now().UnixNano()
	return &idSource{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:     now,
	}
}

func (g *idSource) next() SessionID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return SessionID(ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String())
}
