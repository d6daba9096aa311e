package formstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

type memoryEntry struct {
	snapshot  Snapshot
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps drafts in process memory. Snapshots are deep-copied on the
// way in and out, so callers never share state with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]memoryEntry
	ttl    time.Duration
	now    func() time.Time
	ticker *time.Ticker
	done   chan struct{}
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates a store whose drafts expire ttl after their last save.
// A zero ttl keeps drafts forever. A positive cleanupInterval starts a
// background loop that drops expired drafts until Close is called.
func NewMemoryStore(ttl, cleanupInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		drafts: make(map[string]memoryEntry),
		ttl:    ttl,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if cleanupInterval > 0 {
		m.ticker = time.NewTicker(cleanupInterval)
		go m.cleanupLoop(m.ticker)
	}
	return m
}

func (m *MemoryStore) Save(ctx context.Context, s Snapshot) error {
	if err := validate(s); err != nil {
		return err
	}
	copied, err := copySnapshot(s)
	if err != nil {
		return err
	}

	entry := memoryEntry{snapshot: copied}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[s.ID] = entry
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	entry, ok := m.drafts[id]
	m.mu.RUnlock()

	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		delete(m.drafts, id)
		m.mu.Unlock()
		return Snapshot{}, ErrExpired
	}
	return copySnapshot(entry.snapshot)
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

// DeleteExpired drops every expired draft.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.drafts {
		if entry.expired(now) {
			delete(m.drafts, id)
		}
	}
	return nil
}

// Len returns the number of stored drafts, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drafts)
}

// Close stops the cleanup loop.
func (m *MemoryStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
		m.ticker = nil
	}
	return nil
}

func (m *MemoryStore) cleanupLoop(ticker *time.Ticker) {
	for {
		select {
		case <-ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}

func copySnapshot(s Snapshot) (Snapshot, error) {
	out := s
	out.State = s.State.Clone()

	var values validator.Values
	if err := deepcopy.Copy(&values, s.State.Values, deepcopy.IgnoreNonCopyableTypes(true)); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidSnapshot, err)
	}
	if values == nil {
		values = validator.Values{}
	}
	out.State.Values = values
	return out, nil
}
