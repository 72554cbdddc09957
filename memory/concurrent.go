package memory

import (
	"sync"

	"github.com/google/uuid"
)

// ConcurrentStore wraps a Store with a single read-write mutex, serializing
// access from multiple goroutines. FindRelevant takes the write lock because
// retrieval mutates usage history.
type ConcurrentStore struct {
	mu    sync.RWMutex
	inner *Store
}

// NewConcurrent creates a mutex-guarded store.
func NewConcurrent(profile AgentProfile, state AgentState, opts ...Option) (*ConcurrentStore, error) {
	inner, err := New(profile, state, opts...)
	if err != nil {
		return nil, err
	}
	return &ConcurrentStore{inner: inner}, nil
}

// AddMemory inserts a memory and returns its ID.
func (c *ConcurrentStore) AddMemory(mem Memory) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.AddMemory(mem)
}

// GetMemory returns a snapshot of the memory with the given ID.
func (c *ConcurrentStore) GetMemory(id uuid.UUID) (Memory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.GetMemory(id)
}

// RemoveMemory deletes the memory with the given ID.
func (c *ConcurrentStore) RemoveMemory(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.RemoveMemory(id)
}

// FindRelevant ranks stored memories against the query vector.
func (c *ConcurrentStore) FindRelevant(queryVector []float32, limit int) ([]SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindRelevant(queryVector, limit)
}

// FindRelevantBatch ranks stored memories against each query vector in turn,
// atomically with respect to other store operations.
func (c *ConcurrentStore) FindRelevantBatch(queryVectors [][]float32, limit int) ([][]SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindRelevantBatch(queryVectors, limit)
}

// Maintain evicts memories whose retention fell below the threshold.
func (c *ConcurrentStore) Maintain(retentionThreshold float64) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Maintain(retentionThreshold)
}

// UpdateState replaces the agent state read by subsequent scoring calls.
func (c *ConcurrentStore) UpdateState(state AgentState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.UpdateState(state)
}

// Snapshot copies the store's full state for persistence.
func (c *ConcurrentStore) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Snapshot()
}

// Profile returns the store's agent profile.
func (c *ConcurrentStore) Profile() AgentProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Profile()
}

// State returns the current agent state.
func (c *ConcurrentStore) State() AgentState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.State()
}

// Len returns the number of stored memories.
func (c *ConcurrentStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Len()
}
