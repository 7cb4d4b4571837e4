package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"lacasa/internal/cart"
)

type memoryEntry struct {
	sess    Session
	touched time.Time
}

// MemoryStore holds sessions in process memory. Entries idle for longer than
// the ttl are dropped on the next write.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: map[string]*memoryEntry{}, ttl: ttl, now: time.Now}
}

// Load returns ErrNotFound for ids never written or already expired.
func (m *MemoryStore) Load(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || m.expired(e) {
		return Session{}, ErrNotFound
	}
	return clone(e.sess), nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	sess := New()
	if e, ok := m.entries[id]; ok {
		sess = clone(e.sess)
	}
	if err := fn(&sess); err != nil {
		return Session{}, err
	}
	m.entries[id] = &memoryEntry{sess: clone(sess), touched: m.now()}
	return sess, nil
}

// Len reports how many live sessions are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	return len(m.entries)
}

func (m *MemoryStore) expired(e *memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(e.touched) > m.ttl
}

func (m *MemoryStore) sweep() {
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
		}
	}
}

// clone copies the slices a caller could otherwise mutate behind the store's
// back.
func clone(s Session) Session {
	out := s
	out.Cart.Items = nil
	if s.Cart.Items != nil {
		out.Cart.Items = make([]cart.LineItem, len(s.Cart.Items))
		for i, it := range s.Cart.Items {
			it.Flavors = slices.Clone(it.Flavors)
			out.Cart.Items[i] = it
		}
	}
	out.Picker.Flavors = slices.Clone(s.Picker.Flavors)
	out.Notices = slices.Clone(s.Notices)
	return out
}
