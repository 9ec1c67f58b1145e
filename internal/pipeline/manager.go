package pipeline

import (
	"context"
	"sync"
)

// Manager hands out one started Session per user
type Manager struct {
	stores   Stores
	opts     Options
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(stores Stores, opts Options) *Manager {
	return &Manager{
		stores:   stores,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Session returns the user's session, creating and starting it on first use.
// A session that fails to start is not kept.
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}

	s := NewSession(userID, m.stores, m.opts)
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	m.sessions[userID] = s
	return s, nil
}

// Users lists the users with a live session
func (m *Manager) Users() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		users = append(users, id)
	}
	return users
}
