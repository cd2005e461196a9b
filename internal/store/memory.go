// internal/store/memory.go
//
// In-memory implementation of the game Store.
// Live games own a running countdown and websocket subscribers, so they stay
// in process; only finished results go to SQLite (see internal/results).
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Optional reaper closes games idle longer than the configured timeout.
//   - Errors are returned for missing game IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game and closes it.
	Delete(ctx context.Context, id string) error
}

// Memory is an in-memory map-based Store.
type Memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID

	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewMemoryStore constructs an in-memory Store. When idleTimeout is
// positive a reaper goroutine runs until Close.
func NewMemoryStore(idleTimeout time.Duration) *Memory {
	m := &Memory{
		games:       make(map[string]*game.Game),
		idleTimeout: idleTimeout,
		stop:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		m.wg.Add(1)
		go m.reaperLoop()
	}
	return m
}

// Save adds or updates the game in the map.
func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// Get looks up a game by ID.
func (m *Memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

// Delete removes and closes a game.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	g, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	g.Close()
	return nil
}

// Len reports the number of live games.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Close stops the reaper and closes every game.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()

	m.mu.Lock()
	games := m.games
	m.games = make(map[string]*game.Game)
	m.mu.Unlock()

	for _, g := range games {
		g.Close()
	}
}

// Reap closes games idle since before cutoff and returns how many went.
func (m *Memory) Reap(cutoff time.Time) int {
	var idle []*game.Game

	m.mu.Lock()
	for id, g := range m.games {
		if g.LastActive().Before(cutoff) {
			delete(m.games, id)
			idle = append(idle, g)
		}
	}
	m.mu.Unlock()

	for _, g := range idle {
		g.Close()
		log.Debug().Str("gameId", g.ID).Msg("reaped idle game")
	}
	return len(idle)
}

// reaperLoop periodically removes games idle longer than idleTimeout.
func (m *Memory) reaperLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.Reap(now.Add(-m.idleTimeout))
		}
	}
}
