package duel

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is the default in-process store. Sessions live exactly as long
// as the process, which is the engine's stated durability boundary.
type memStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewMemStore returns an in-memory store. Finished sessions older than ttl
// are reclaimed lazily during List.
func NewMemStore(ttl time.Duration) Store {
	return &memStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (m *memStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = s.Clone()
	m.mu.Unlock()
	return nil
}

func (m *memStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *memStore) List(_ context.Context) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		if m.ttl > 0 && s.Stage == StageFinished && time.Since(s.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
			continue
		}
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
