package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/apex/log"

	"github.com/hailam/tensorchess/internal/engine"
)

// rankCacheSize is the number of positions whose reply rankings the manager
// keeps.
const rankCacheSize = 4096

// Manager tracks the live sessions of one process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    Store
	cache    *engine.RankCache
}

// NewManager creates a manager whose sessions report to store, which may be nil.
func NewManager(store Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		cache:    engine.NewRankCache(rankCacheSize),
	}
}

// Cache returns the reply ranking cache shared by the manager's sessions.
func (m *Manager) Cache() *engine.RankCache {
	return m.cache
}

// Create starts a session on the given scenario.
func (m *Manager) Create(scenarioID string) (*Session, error) {
	s, err := New(scenarioID, m.store)
	if err != nil {
		return nil, err
	}
	s.UseCache(m.cache)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete forgets a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	log.WithField("session", id).Info("session deleted")
	return nil
}

// IDs lists the live session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
