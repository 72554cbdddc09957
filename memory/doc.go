// Package memory provides an in-process, retention-ranked vector store for
// agent memories.
//
// Each Memory carries a semantic vector plus the cognitive context of its
// formation (emotional valence, agent age, encoding strength). Retrieval
// ranks memories by the product of cosine similarity against a query vector
// and a time- and usage-dependent retention score, so memories that are
// semantically close but long forgotten rank below fresher matches.
//
// Architecture:
//   - AgentProfile: immutable per-agent parameters shaping decay and
//     emotional weighting
//   - AgentState: mutable runtime context (fatigue, cortisol, ...) read by
//     scoring, replaceable between calls
//   - Memory: one stored record with mutable usage history
//   - Store: owns the records; insert, lookup, removal, ranked retrieval,
//     and threshold-based eviction
//
// Retrieval is reconsolidating: every record actually returned by
// FindRelevant has its retrieval count incremented and its strength reduced
// by an interference penalty, modeling use-dependent forgetting.
//
// The Store is synchronous and not safe for concurrent use; it runs a full
// linear scan per query, which is the intended trade-off for single-agent,
// in-process scale. Wrap it in ConcurrentStore or ShardedStore when multiple
// goroutines need access.
//
// Persistence, embedding, and configuration are external collaborators:
//   - memory/store/file: JSON snapshot persistence
//   - memory/store/chromem: chromem-go archive for evicted memories
//   - memory/embedder: text-to-vector conversion feeding SemanticVector
package memory
