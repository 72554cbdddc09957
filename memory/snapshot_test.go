package memory_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/becomeliminal/engram-go/memory"
)

func TestSnapshotRoundtrip(t *testing.T) {
	clock := newTestClock()
	store := newTestStore(t, clock)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id, _ := store.AddMemory(testMemory(clock, []float32{float32(i), 1, 0}, 0.2).WithMetadata("n", "x"))
		ids[id.String()] = true
	}
	// Advance usage history so the roundtrip covers mutable fields.
	if _, err := store.FindRelevant([]float32{1, 1, 0}, 1); err != nil {
		t.Fatalf("FindRelevant failed: %v", err)
	}

	snap := store.Snapshot()
	if snap.Version != memory.SnapshotVersion {
		t.Fatalf("Snapshot version = %d, want %d", snap.Version, memory.SnapshotVersion)
	}
	if len(snap.Memories) != 3 {
		t.Fatalf("Snapshot holds %d memories, want 3", len(snap.Memories))
	}
	for i := 1; i < len(snap.Memories); i++ {
		if bytes.Compare(snap.Memories[i-1].ID[:], snap.Memories[i].ID[:]) >= 0 {
			t.Error("Snapshot memories not ordered by ID")
		}
	}

	restored, err := memory.FromSnapshot(snap, memory.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}
	if restored.Len() != 3 || restored.Dimensions() != 3 {
		t.Fatalf("Restored store: len=%d dims=%d", restored.Len(), restored.Dimensions())
	}
	for _, mem := range snap.Memories {
		got, ok := restored.GetMemory(mem.ID)
		if !ok {
			t.Fatalf("Memory %s missing after restore", mem.ID)
		}
		if got.RetrievalCount != mem.RetrievalCount || got.MemoryStrength != mem.MemoryStrength {
			t.Errorf("Usage history lost for %s: %+v vs %+v", mem.ID, got, mem)
		}
		if !ids[mem.ID.String()] {
			t.Errorf("Unexpected memory %s in snapshot", mem.ID)
		}
	}
}

func TestFromSnapshotRejectsUnknownVersion(t *testing.T) {
	snap := newTestStore(t, newTestClock()).Snapshot()
	snap.Version = 99
	if _, err := memory.FromSnapshot(snap); !errors.Is(err, memory.ErrInvalidParameter) {
		t.Fatalf("FromSnapshot with version 99: got %v, want ErrInvalidParameter", err)
	}
}

func TestFromSnapshotRejectsMixedDimensions(t *testing.T) {
	clock := newTestClock()
	snap := memory.Snapshot{
		Version: memory.SnapshotVersion,
		Profile: testProfile(),
		Memories: []memory.Memory{
			testMemory(clock, []float32{1, 0}, 0),
			testMemory(clock, []float32{1, 0, 0}, 0),
		},
	}
	if _, err := memory.FromSnapshot(snap); !errors.Is(err, memory.ErrDimensionMismatch) {
		t.Fatalf("FromSnapshot with mixed dims: got %v, want ErrDimensionMismatch", err)
	}
}
