package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zinct/zinct/internal/ledger"
)

// IDGenerator generates unique IDs for sessions and captures
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// Session is one capture session. It exclusively owns its Ledger; the
// ledger is created with the session and discarded with it, and is
// never shared with another session. mu serializes captures so at most
// one extraction is outstanding per session.
type Session struct {
	ID        string
	Ledger    *ledger.Ledger
	CreatedAt time.Time

	mu sync.Mutex
}

// Sessions is the registry of live sessions.
type Sessions struct {
	mu         sync.Mutex
	byID       map[string]*Session
	ids        IDGenerator
	timeSource TimeSource
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{
		byID:       make(map[string]*Session),
		ids:        uuidGenerator{},
		timeSource: wallClock{},
	}
}

// NewSessionsWithDeps creates a registry with custom dependencies for testing.
func NewSessionsWithDeps(ids IDGenerator, timeSource TimeSource) *Sessions {
	return &Sessions{
		byID:       make(map[string]*Session),
		ids:        ids,
		timeSource: timeSource,
	}
}

// Create starts a new session with an empty ledger.
func (s *Sessions) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        s.ids.Generate(),
		Ledger:    ledger.NewLedger(),
		CreatedAt: s.timeSource.Now(),
	}
	s.byID[sess.ID] = sess
	return sess
}

// Get returns a session by ID.
func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return sess, nil
}

// End discards a session and its ledger. Records mirrored to a sink
// persist independently.
func (s *Sessions) End(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	delete(s.byID, id)
	return nil
}
