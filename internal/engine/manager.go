package engine

import (
	"sort"
	"sync"

	"github.com/efreitasn/openoutcry/internal/domain"
)

// Manager is a thread-safe map of market id → Session. Sessions are fully
// independent: operations on different markets never contend.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Add registers a session under its market id, replacing any previous
// session with the same id.
func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
}

// Get returns the session for the given market id. It returns
// domain.ErrMarketNotFound if no such market exists.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrMarketNotFound
	}
	return s, nil
}

// List returns all sessions ordered by market id.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result
}
