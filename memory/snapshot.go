package memory

import (
	"bytes"
	"fmt"
	"sort"
)

// SnapshotVersion is the current data format version for serialized store
// state. Bump it on any incompatible change to Snapshot or Memory.
const SnapshotVersion = 1

// Snapshot is a self-contained, serializable copy of a store's state.
// Persistence adapters (memory/store/file) serialize it however they like;
// the core defines no wire format. Memories are ordered by ID so encoded
// output is deterministic.
type Snapshot struct {
	Version  int          `json:"version"`
	Profile  AgentProfile `json:"profile"`
	State    AgentState   `json:"state"`
	Memories []Memory     `json:"memories"`
}

// Snapshot copies the store's full state for persistence.
func (s *Store) Snapshot() Snapshot {
	memories := make([]Memory, 0, len(s.memories))
	for _, mem := range s.memories {
		memories = append(memories, mem.clone())
	}
	sort.Slice(memories, func(i, j int) bool {
		return bytes.Compare(memories[i].ID[:], memories[j].ID[:]) < 0
	})
	return Snapshot{
		Version:  SnapshotVersion,
		Profile:  s.profile,
		State:    s.state,
		Memories: memories,
	}
}

// FromSnapshot reconstructs a store from a snapshot taken earlier. The
// snapshot's version must match SnapshotVersion and all memories must share
// one vector dimensionality.
func FromSnapshot(snap Snapshot, opts ...Option) (*Store, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, supported %d",
			ErrInvalidParameter, snap.Version, SnapshotVersion)
	}
	s, err := New(snap.Profile, snap.State, opts...)
	if err != nil {
		return nil, err
	}
	for _, mem := range snap.Memories {
		if _, err := s.AddMemory(mem); err != nil {
			return nil, fmt.Errorf("memory %s: %w", mem.ID, err)
		}
	}
	return s, nil
}
