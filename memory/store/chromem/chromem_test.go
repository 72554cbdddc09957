package chromem_test

import (
	"context"
	"testing"
	"time"

	"github.com/becomeliminal/engram-go/memory"
	"github.com/becomeliminal/engram-go/memory/store/chromem"
)

func TestArchiveAddAndSearch(t *testing.T) {
	ctx := context.Background()
	archive, err := chromem.New()
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}

	mem := memory.NewMemory([]float32{0.9, 0.1, 0.2}, -0.3, 25.0, 1.0).
		WithMetadata("text", "missed the last ferry")
	if err := archive.Add(ctx, mem); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if archive.Count() != 1 {
		t.Fatalf("Count = %d, want 1", archive.Count())
	}

	results, err := archive.Search(ctx, []float32{0.9, 0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Got %d results, want 1", len(results))
	}
	got := results[0].Memory
	if got.ID != mem.ID {
		t.Errorf("ID = %v, want %v", got.ID, mem.ID)
	}
	if got.Emotion != mem.Emotion || got.Metadata["text"] != "missed the last ferry" {
		t.Errorf("Archived memory lost fields: %+v", got)
	}
	if results[0].Similarity < 0.99 {
		t.Errorf("Similarity = %v, want ~1 for an exact match", results[0].Similarity)
	}
}

func TestSearchEmptyArchive(t *testing.T) {
	archive, err := chromem.New()
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}

	results, err := archive.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search on empty archive failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Empty archive returned %d results", len(results))
	}
}

func TestEvictionHookArchivesMemories(t *testing.T) {
	archive, err := chromem.New()
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}

	store, err := memory.New(memory.DefaultProfile(), memory.AgentState{CurrentAge: 30.0},
		memory.WithEvictionHook(archive.Hook()))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// A year-old memory under default decay retains far less than 0.9.
	old := memory.NewMemory([]float32{0.2, 0.8}, 0.0, 1.0, 1.0)
	old.CreatedAt = time.Now().Add(-365 * 24 * time.Hour)
	id, err := store.AddMemory(old)
	if err != nil {
		t.Fatalf("AddMemory failed: %v", err)
	}

	removed, err := store.Maintain(0.9)
	if err != nil {
		t.Fatalf("Maintain failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Maintain removed %d, want 1", removed)
	}
	if _, ok := store.GetMemory(id); ok {
		t.Fatal("Memory still in the hot store after eviction")
	}

	results, err := archive.Search(context.Background(), []float32{0.2, 0.8}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Memory.ID != id {
		t.Fatalf("Evicted memory not found in archive: %+v", results)
	}
}
