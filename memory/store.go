package memory

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store owns a collection of memories together with the AgentProfile and
// AgentState that score them. All operations run to completion on the
// calling goroutine with no internal locking; a Store must be owned by one
// goroutine or wrapped (see ConcurrentStore, ShardedStore).
type Store struct {
	memories map[uuid.UUID]*Memory
	profile  AgentProfile
	state    AgentState

	// dims is the vector dimensionality fixed by the first insert;
	// zero until then.
	dims int

	now     func() time.Time
	onEvict func(Memory)
}

// Option configures a Store at construction.
type Option func(*Store)

// WithClock replaces the store's time source. Used in tests to make decay
// deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithEvictionHook registers a callback invoked with a snapshot of every
// memory Maintain evicts, after removal. Adapters use it to archive decayed
// memories (see memory/store/chromem).
func WithEvictionHook(hook func(Memory)) Option {
	return func(s *Store) { s.onEvict = hook }
}

// New creates a Store scoring with the given profile and state.
// Returns ErrInvalidParameter if the profile fails validation.
func New(profile AgentProfile, state AgentState, opts ...Option) (*Store, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		memories: make(map[uuid.UUID]*Memory),
		profile:  profile,
		state:    state,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SearchResult is one ranked retrieval hit: the memory's ID, a snapshot of
// its post-retrieval state, and its relevance score.
type SearchResult struct {
	ID     uuid.UUID
	Memory Memory
	Score  float64
}

// AddMemory inserts a memory and returns its ID. The first insert fixes the
// store's vector dimensionality; later inserts with a different vector
// length fail with ErrDimensionMismatch and leave the store unchanged.
// A zero CreatedAt is stamped with the current time. Inserting an ID that is
// already present replaces the stored record.
func (s *Store) AddMemory(mem Memory) (uuid.UUID, error) {
	if s.dims > 0 && len(mem.SemanticVector) != s.dims {
		return uuid.Nil, dimensionError(len(mem.SemanticVector), s.dims)
	}
	if mem.ID == uuid.Nil {
		mem.ID = uuid.New()
	}
	if mem.CreatedAt.IsZero() {
		mem.CreatedAt = s.now()
	}
	if s.dims == 0 {
		s.dims = len(mem.SemanticVector)
	}
	owned := mem.clone()
	s.memories[owned.ID] = &owned
	return owned.ID, nil
}

// GetMemory returns a snapshot of the memory with the given ID. This is a
// passive lookup: unlike FindRelevant it triggers no retrieval side effects.
func (s *Store) GetMemory(id uuid.UUID) (Memory, bool) {
	mem, ok := s.memories[id]
	if !ok {
		return Memory{}, false
	}
	return mem.clone(), true
}

// RemoveMemory deletes the memory with the given ID.
// Returns ErrNotFound if it is absent.
func (s *Store) RemoveMemory(id uuid.UUID) error {
	if _, ok := s.memories[id]; !ok {
		return notFoundError(id)
	}
	delete(s.memories, id)
	return nil
}

// FindRelevant scans every stored memory, scores it by cosine similarity
// against the query times current retention, and returns up to limit results
// in descending score order. Equal scores are ordered by ascending ID bytes
// so output is reproducible across runs.
//
// Every returned memory (and only those) receives the reconsolidation side
// effect: retrieval count incremented, strength reduced by the interference
// penalty. Results are snapshots of the post-update state.
//
// Fails with ErrDimensionMismatch if the query length differs from the
// store's established dimensionality, and with ErrInvalidParameter on a
// negative limit. An empty store returns no results.
func (s *Store) FindRelevant(queryVector []float32, limit int) ([]SearchResult, error) {
	if limit < 0 {
		return nil, invalidParameterError("limit", limit)
	}
	if s.dims > 0 && len(queryVector) != s.dims {
		return nil, dimensionError(len(queryVector), s.dims)
	}
	if len(s.memories) == 0 {
		return nil, nil
	}

	now := s.now()
	scored := make([]SearchResult, 0, len(s.memories))
	for id, mem := range s.memories {
		similarity := CosineSimilarity(queryVector, mem.SemanticVector)
		retention := mem.Retention(now, s.state, s.profile)
		scored = append(scored, SearchResult{ID: id, Score: similarity * retention})
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

	for i := range scored {
		mem := s.memories[scored[i].ID]
		mem.recordRetrieval(now, s.profile.InterferenceRate)
		scored[i].Memory = mem.clone()
	}
	return scored, nil
}

// FindRelevantBatch runs FindRelevant once per query vector and returns the
// per-query results in order. Side effects accumulate across queries: a
// memory returned for two queries is retrieved twice.
func (s *Store) FindRelevantBatch(queryVectors [][]float32, limit int) ([][]SearchResult, error) {
	results := make([][]SearchResult, 0, len(queryVectors))
	for i, q := range queryVectors {
		res, err := s.FindRelevant(q, limit)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Maintain evicts every memory whose current retention is strictly below
// retentionThreshold and returns the number removed. Eviction is
// irreversible; the registered eviction hook, if any, receives a snapshot of
// each removed memory. The threshold must be finite and within [0, 1].
func (s *Store) Maintain(retentionThreshold float64) (int, error) {
	if math.IsNaN(retentionThreshold) || math.IsInf(retentionThreshold, 0) ||
		retentionThreshold < 0 || retentionThreshold > 1 {
		return 0, invalidParameterError("retention_threshold", retentionThreshold)
	}

	now := s.now()
	removed := 0
	for id, mem := range s.memories {
		if mem.Retention(now, s.state, s.profile) >= retentionThreshold {
			continue
		}
		evicted := mem.clone()
		delete(s.memories, id)
		removed++
		if s.onEvict != nil {
			s.onEvict(evicted)
		}
	}
	return removed, nil
}

// UpdateState replaces the agent state read by subsequent scoring calls.
func (s *Store) UpdateState(state AgentState) {
	s.state = state
}

// Profile returns the store's agent profile.
func (s *Store) Profile() AgentProfile { return s.profile }

// State returns the current agent state.
func (s *Store) State() AgentState { return s.state }

// Len returns the number of stored memories.
func (s *Store) Len() int { return len(s.memories) }

// Dimensions returns the vector dimensionality fixed by the first insert,
// or zero if nothing has been inserted yet.
func (s *Store) Dimensions() int { return s.dims }
