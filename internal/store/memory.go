// internal/store/memory.go
//
// In-memory session store for games played over HTTP.
//
// Characteristics:
//   - Stores sessions (a *game.Game plus its daily metadata) keyed by game ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each entry carries its own mutex so guesses on one game are serialized.
//   - Sessions idle for longer than the TTL are dropped by Sweep, metadata
//     included.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cthoyt/pyrdle/internal/game"
)

// ErrNotFound is returned by Get for an unknown or expired id.
var ErrNotFound = errors.New("game not found")

// Daily identifies the daily puzzle a session plays.
type Daily struct {
	Date  string // YYYY-MM-DD
	Index int    // corpus index of the secret
}

// Session is one game played over HTTP. Daily is nil for random games.
type Session struct {
	Game  *game.Game
	Daily *Daily
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session, keyed by its game ID.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID. The returned unlock func must be
	// called once the caller is done mutating the game.
	Get(ctx context.Context, id string) (*Session, func(), error)
}

type entry struct {
	mu   sync.Mutex
	s    *Session
	seen time.Time
}

// Memory is a map-based Store.
type Memory struct {
	mu    sync.RWMutex // guards games
	games map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore returns an empty store. ttl <= 0 keeps games forever.
func NewMemoryStore(ttl time.Duration) *Memory {
	return &Memory{games: make(map[string]*entry), ttl: ttl, now: time.Now}
}

// Save adds or replaces the session.
func (m *Memory) Save(_ context.Context, s *Session) error {
	if s == nil || s.Game == nil {
		return errors.New("store: session without game")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[s.Game.ID] = &entry{s: s, seen: m.now()}
	return nil
}

// Get locks and returns the session.
func (m *Memory) Get(_ context.Context, id string) (*Session, func(), error) {
	m.mu.RLock()
	e, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}
	e.mu.Lock()
	e.seen = m.now()
	return e.s, e.mu.Unlock, nil
}

// Len is the number of stored sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Sweep drops sessions not touched within the TTL and reports how many.
func (m *Memory) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		if !e.mu.TryLock() {
			continue
		}
		if e.seen.Before(cutoff) {
			delete(m.games, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Janitor calls Sweep every interval until ctx is done.
func (m *Memory) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
