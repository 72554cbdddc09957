package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/becomeliminal/engram-go/memory"
	"github.com/becomeliminal/engram-go/memory/store/file"
)

func TestLoadMissingFileReturnsEmptySnapshot(t *testing.T) {
	backend := file.New(filepath.Join(t.TempDir(), "missing.json"))

	snap, err := backend.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Version != memory.SnapshotVersion {
		t.Errorf("Version = %d, want %d", snap.Version, memory.SnapshotVersion)
	}
	if len(snap.Memories) != 0 {
		t.Errorf("Expected empty snapshot, got %d memories", len(snap.Memories))
	}
	if snap.Profile != memory.DefaultProfile() {
		t.Errorf("Profile = %+v, want defaults", snap.Profile)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent", "memories.json")
	backend := file.New(path)

	store, err := memory.New(memory.DefaultProfile(), memory.AgentState{CurrentAge: 30.0})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	id, _ := store.AddMemory(memory.NewMemory([]float32{0.1, 0.9}, 0.4, 1.0, 1.0).
		WithMetadata("source", "test"))

	if err := backend.Save(store.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap, err := backend.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	restored, err := memory.FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}

	got, ok := restored.GetMemory(id)
	if !ok {
		t.Fatal("Memory missing after roundtrip")
	}
	if got.Emotion != 0.4 || got.Metadata["source"] != "test" {
		t.Errorf("Roundtrip changed fields: %+v", got)
	}
	if len(got.SemanticVector) != 2 || got.SemanticVector[1] != 0.9 {
		t.Errorf("Roundtrip changed vector: %v", got.SemanticVector)
	}
}

func TestLoadRejectsIncompatibleVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "memories": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := file.New(path).Load(); err == nil {
		t.Fatal("Expected an error for an incompatible snapshot version")
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := file.New(path).Load(); err == nil {
		t.Fatal("Expected an error for a corrupt snapshot")
	}
}
