package memory

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ShardedStore partitions memories across independently locked shards so
// inserts and lookups on different shards proceed in parallel. Ranked
// retrieval still scans every shard; scoring runs under per-shard read
// locks, so a memory removed concurrently after scoring is dropped from the
// results rather than retrieved.
type ShardedStore struct {
	profile AgentProfile
	now     func() time.Time

	mu    sync.RWMutex // guards state and dims
	state AgentState
	dims  int

	shards []*memoryShard
}

type memoryShard struct {
	mu       sync.RWMutex
	memories map[uuid.UUID]*Memory
}

// NewSharded creates a store with numShards independent partitions.
func NewSharded(profile AgentProfile, state AgentState, numShards int) (*ShardedStore, error) {
	if numShards <= 0 {
		return nil, invalidParameterError("num_shards", numShards)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	shards := make([]*memoryShard, numShards)
	for i := range shards {
		shards[i] = &memoryShard{memories: make(map[uuid.UUID]*Memory)}
	}
	return &ShardedStore{
		profile: profile,
		state:   state,
		now:     time.Now,
		shards:  shards,
	}, nil
}

func (s *ShardedStore) shardFor(id uuid.UUID) *memoryShard {
	idx := binary.BigEndian.Uint64(id[:8]) % uint64(len(s.shards))
	return s.shards[idx]
}

// AddMemory inserts a memory into its shard and returns its ID.
func (s *ShardedStore) AddMemory(mem Memory) (uuid.UUID, error) {
	s.mu.Lock()
	if s.dims > 0 && len(mem.SemanticVector) != s.dims {
		s.mu.Unlock()
		return uuid.Nil, dimensionError(len(mem.SemanticVector), s.dims)
	}
	if s.dims == 0 {
		s.dims = len(mem.SemanticVector)
	}
	s.mu.Unlock()

	if mem.ID == uuid.Nil {
		mem.ID = uuid.New()
	}
	if mem.CreatedAt.IsZero() {
		mem.CreatedAt = s.now()
	}
	owned := mem.clone()

	shard := s.shardFor(owned.ID)
	shard.mu.Lock()
	shard.memories[owned.ID] = &owned
	shard.mu.Unlock()
	return owned.ID, nil
}

// GetMemory returns a snapshot of the memory with the given ID.
func (s *ShardedStore) GetMemory(id uuid.UUID) (Memory, bool) {
	shard := s.shardFor(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	mem, ok := shard.memories[id]
	if !ok {
		return Memory{}, false
	}
	return mem.clone(), true
}

// RemoveMemory deletes the memory with the given ID.
// Returns ErrNotFound if it is absent.
func (s *ShardedStore) RemoveMemory(id uuid.UUID) error {
	shard := s.shardFor(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if _, ok := shard.memories[id]; !ok {
		return notFoundError(id)
	}
	delete(shard.memories, id)
	return nil
}

// FindRelevant scores memories across every shard, merges them into one
// descending ranking with ID tie-breaks, and applies the retrieval side
// effect to the global top results only.
func (s *ShardedStore) FindRelevant(queryVector []float32, limit int) ([]SearchResult, error) {
	if limit < 0 {
		return nil, invalidParameterError("limit", limit)
	}
	s.mu.RLock()
	dims := s.dims
	state := s.state
	s.mu.RUnlock()
	if dims > 0 && len(queryVector) != dims {
		return nil, dimensionError(len(queryVector), dims)
	}

	now := s.now()
	var scored []SearchResult
	for _, shard := range s.shards {
		shard.mu.RLock()
		for id, mem := range shard.memories {
			similarity := CosineSimilarity(queryVector, mem.SemanticVector)
			retention := mem.Retention(now, state, s.profile)
			scored = append(scored, SearchResult{ID: id, Score: similarity * retention})
		}
		shard.mu.RUnlock()
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return bytes.Compare(scored[i].ID[:], scored[j].ID[:]) < 0
	})
	if limit < len(scored) {
		scored = scored[:limit]
	}

	results := scored[:0]
	for _, hit := range scored {
		shard := s.shardFor(hit.ID)
		shard.mu.Lock()
		mem, ok := shard.memories[hit.ID]
		if !ok {
			shard.mu.Unlock()
			continue
		}
		mem.recordRetrieval(now, s.profile.InterferenceRate)
		hit.Memory = mem.clone()
		shard.mu.Unlock()
		results = append(results, hit)
	}
	return results, nil
}

// Maintain evicts memories below the retention threshold on every shard and
// returns the total removed.
func (s *ShardedStore) Maintain(retentionThreshold float64) (int, error) {
	if math.IsNaN(retentionThreshold) || math.IsInf(retentionThreshold, 0) ||
		retentionThreshold < 0 || retentionThreshold > 1 {
		return 0, invalidParameterError("retention_threshold", retentionThreshold)
	}

	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	now := s.now()
	removed := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		for id, mem := range shard.memories {
			if mem.Retention(now, state, s.profile) < retentionThreshold {
				delete(shard.memories, id)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed, nil
}

// UpdateState replaces the agent state read by subsequent scoring calls.
func (s *ShardedStore) UpdateState(state AgentState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Profile returns the store's agent profile.
func (s *ShardedStore) Profile() AgentProfile { return s.profile }

// State returns the current agent state.
func (s *ShardedStore) State() AgentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Len returns the number of stored memories across all shards.
func (s *ShardedStore) Len() int {
	total := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		total += len(shard.memories)
		shard.mu.RUnlock()
	}
	return total
}
