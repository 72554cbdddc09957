// Package chromem archives evicted memories into chromem-go, an embedded
// pure-Go vector database.
//
// The core store destroys a memory the moment its retention falls below the
// maintenance threshold. Wiring an Archive into the store's eviction hook
// keeps a cold copy that external tooling can still search by embedding:
//
//	archive, _ := chromem.New()
//	store, _ := memory.New(profile, state, memory.WithEvictionHook(archive.Hook()))
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/becomeliminal/engram-go/memory"
)

// Archive is a write-once cold store for evicted memories.
type Archive struct {
	db  *chromemgo.DB
	col *chromemgo.Collection
}

// Result is one archive search hit.
type Result struct {
	Memory     memory.Memory
	Similarity float32
}

// New creates an in-memory archive.
func New() (*Archive, error) {
	db := chromemgo.NewDB()
	// Embeddings are supplied by the caller, so no embedding func and the
	// default cosine distance.
	col, err := db.CreateCollection("evicted", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Archive{db: db, col: col}, nil
}

// Add archives one memory snapshot.
func (a *Archive) Add(ctx context.Context, mem memory.Memory) error {
	content, err := json.Marshal(mem)
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}

	doc := chromemgo.Document{
		ID:        mem.ID.String(),
		Content:   string(content),
		Embedding: mem.SemanticVector,
		Metadata: map[string]string{
			"emotion":         strconv.FormatFloat(mem.Emotion, 'g', -1, 64),
			"retrieval_count": strconv.Itoa(mem.RetrievalCount),
			"created_at":      mem.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
	}
	if err := a.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Hook adapts the archive to the store's eviction hook. Archival failures
// are logged, not propagated: eviction must not fail because cold storage
// did.
func (a *Archive) Hook() func(memory.Memory) {
	return func(mem memory.Memory) {
		if err := a.Add(context.Background(), mem); err != nil {
			log.Printf("[ARCHIVE] Failed to archive evicted memory %s: %v", mem.ID, err)
		}
	}
}

// Search returns up to limit archived memories by embedding similarity,
// most similar first.
func (a *Archive) Search(ctx context.Context, embedding []float32, limit int) ([]Result, error) {
	// chromem requires nResults <= collection size.
	n := limit
	if count := a.col.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	hits, err := a.col.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		var mem memory.Memory
		if err := json.Unmarshal([]byte(hit.Content), &mem); err != nil {
			log.Printf("[ARCHIVE] Skipping undecodable document %s: %v", hit.ID, err)
			continue
		}
		if len(mem.SemanticVector) == 0 {
			mem.SemanticVector = hit.Embedding
		}
		results = append(results, Result{Memory: mem, Similarity: hit.Similarity})
	}
	return results, nil
}

// Count returns the number of archived memories.
func (a *Archive) Count() int {
	return a.col.Count()
}
