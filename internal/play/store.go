// internal/play/store.go
//
// In-memory registry of live play sessions.
// Sessions are ephemeral: the authoritative totals live in the Result
// Reporting Service, so nothing here survives a restart.
//
// Characteristics:
//   - Stores *Handle objects keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Errors are returned for missing session IDs on Get().

package play

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for play sessions.
type Store interface {
	// Save persists or updates a session handle.
	Save(ctx context.Context, h *Handle) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Handle, error)

	// Delete removes a session; unknown IDs are a no-op.
	Delete(ctx context.Context, id string) error

	// List returns every live session handle.
	List(ctx context.Context) []*Handle
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Handle
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Handle)}
}

func (m *memory) Save(ctx context.Context, h *Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[h.ID] = h
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.sessions[id]; ok {
		return h, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) List(ctx context.Context) []*Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Handle, 0, len(m.sessions))
	for _, h := range m.sessions {
		out = append(out, h)
	}
	return out
}
