package saves

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps saves in process memory. It backs the "none" storage
// backend so save and load still work within one run.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Record)}
}

func (m *MemoryStore) Put(_ context.Context, rec Record) error {
	if err := ValidateSlot(rec.Slot); err != nil {
		return err
	}
	rec.Data = slices.Clone(rec.Data)
	m.mu.Lock()
	m.slots[rec.Slot] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, slot string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.slots[slot]
	if !ok {
		return Record{}, ErrSlotNotFound
	}
	return rec, nil
}

func (m *MemoryStore) List(_ context.Context) ([]SlotInfo, error) {
	m.mu.RLock()
	out := make([]SlotInfo, 0, len(m.slots))
	for _, rec := range m.slots {
		out = append(out, rec.SlotInfo)
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b SlotInfo) int { return cmp.Compare(a.Slot, b.Slot) })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slot]; !ok {
		return ErrSlotNotFound
	}
	delete(m.slots, slot)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
