package storage

import (
	"context"
	"sync"

	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/port"
)

// MemoryInventoryStore holds the session inventory. Snapshots are immutable
// so Load hands them out without copying.
type MemoryInventoryStore struct {
	mu      sync.RWMutex
	inv     domain.Inventory
	version int64
}

func NewMemoryInventoryStore(inv domain.Inventory) *MemoryInventoryStore {
	return &MemoryInventoryStore{inv: inv, version: 1}
}

func (m *MemoryInventoryStore) Load(ctx context.Context) (domain.Inventory, int64, error) {
	if err := ctx.Err(); err != nil {
		return domain.Inventory{}, 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inv, m.version, nil
}

func (m *MemoryInventoryStore) Save(ctx context.Context, inv domain.Inventory, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.version != expectedVersion {
		return 0, port.ErrOptimisticLock
	}
	m.inv = inv
	m.version++
	return m.version, nil
}
