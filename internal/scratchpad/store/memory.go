package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps submissions in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*Submission
	order []string // insertion order
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Submission)}
}

// Save inserts a submission
func (m *MemoryStore) Save(ctx context.Context, sub *Submission) error {
	if err := validate(sub); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if _, exists := m.byID[sub.ID]; !exists {
		m.order = append(m.order, sub.ID)
	}
	stored := *sub
	m.byID[sub.ID] = &stored
	return nil
}

// Get retrieves a submission by ID
func (m *MemoryStore) Get(ctx context.Context, id string) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	out := *sub
	return &out, nil
}

// List returns submissions newest first
func (m *MemoryStore) List(ctx context.Context, limit, offset int) ([]*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	all := make([]*Submission, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		sub := *m.byID[m.order[i]]
		all = append(all, &sub)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*Submission{}, nil
	}
	end := len(all)
	if limit < len(all)-offset {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Prune deletes submissions created before olderThan
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	kept := m.order[:0]
	for _, id := range m.order {
		if m.byID[id].CreatedAt.Before(olderThan) {
			delete(m.byID, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return removed, nil
}

// Statistics returns store statistics
func (m *MemoryStore) Statistics(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{Total: len(m.byID)}
	for _, sub := range m.byID {
		if sub.Failed() {
			stats.Failed++
		}
	}
	return stats, nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
