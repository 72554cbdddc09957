package memory

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Memory is one stored unit: a semantic vector plus the cognitive context of
// its formation and a mutable usage history. Create memories with NewMemory
// and hand them to a Store; the Store is the sole mutator of stored records
// and hands value copies back out.
type Memory struct {
	// ID uniquely identifies the memory. Assigned at creation, immutable.
	ID uuid.UUID `json:"id"`

	// SemanticVector encodes the memory's meaning. Similar memories have
	// high cosine similarity. Length must match the owning store's
	// dimensionality, which the first inserted memory establishes.
	SemanticVector []float32 `json:"semantic_vector"`

	// Emotion is the valence of the event that formed the memory,
	// clamped to [-1, 1]. Negative for fear or sadness, positive for joy.
	Emotion float64 `json:"emotion"`

	// AgeAtFormation is the agent's age when the memory formed,
	// immutable. Together with AgentProfile.CapacityFactor it sets the
	// formation-plasticity phase of retention.
	AgeAtFormation float64 `json:"age_at_formation"`

	// CapacityWeight is the initial encoding strength from
	// working-memory constraints, clamped to [0, 1]. Immutable.
	CapacityWeight float64 `json:"capacity_weight"`

	// CreatedAt is when the memory formed. AddMemory stamps it if zero.
	CreatedAt time.Time `json:"created_at"`

	// LastRetrievedAt is when the memory last appeared in a FindRelevant
	// result.
	LastRetrievedAt time.Time `json:"last_retrieved_at"`

	// RetrievalCount is how many times the memory has been retrieved.
	RetrievalCount int `json:"retrieval_count"`

	// MemoryStrength starts at CapacityWeight and decreases monotonically as
	// interference accumulates from repeated retrieval. A memory at
	// strength 0 has retention 0 regardless of every other term.
	MemoryStrength float64 `json:"memory_strength"`

	// Metadata holds application-specific key-value annotations.
	Metadata map[string]string `json:"metadata,omitempty"`

	// RecallHistory records the timestamps of past retrievals,
	// oldest first.
	RecallHistory []time.Time `json:"recall_history,omitempty"`
}

// NewMemory creates a memory with a fresh ID. Emotion is clamped to [-1, 1]
// and capacityWeight to [0, 1]; initial strength equals the capacity weight,
// so weakly encoded memories start weak.
func NewMemory(semanticVector []float32, emotion, ageAtFormation, capacityWeight float64) Memory {
	now := time.Now()
	weight := clamp(capacityWeight, 0.0, 1.0)
	return Memory{
		ID:              uuid.New(),
		SemanticVector:  semanticVector,
		Emotion:         clamp(emotion, -1.0, 1.0),
		AgeAtFormation:  ageAtFormation,
		CapacityWeight:  weight,
		CreatedAt:       now,
		LastRetrievedAt: now,
		MemoryStrength:  weight,
	}
}

// WithMetadata returns a copy of the memory with the key-value pair added.
func (m Memory) WithMetadata(key, value string) Memory {
	meta := make(map[string]string, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		meta[k] = v
	}
	meta[key] = value
	m.Metadata = meta
	return m
}

// Retention computes the memory's current retention in [0, 1]: the product
// of formation-phase plasticity, power-law time decay, emotional bias, and
// accumulated strength. It is recomputed on demand and never cached.
//
//	phase = 1 / (1 + exp(capacity_factor * (age_at_formation - capacity_factor)))
//	decay = (1 + beta * age_days)^(-decay_alpha)
//	bias  = max(0, 1 + emotional_bias * emotion)
//
// where beta = decay_beta * (1 + cortisol + fatigue): a stressed or fatigued
// agent forgets on a shorter timescale. For fixed strength and state the
// result is non-increasing in elapsed time.
func (m *Memory) Retention(now time.Time, state AgentState, profile AgentProfile) float64 {
	ageDays := now.Sub(m.CreatedAt).Hours() / 24.0
	if ageDays < 0 {
		ageDays = 0
	}

	phase := 1.0 / (1.0 + math.Exp(profile.CapacityFactor*(m.AgeAtFormation-profile.CapacityFactor)))

	beta := profile.DecayBeta * (1.0 + state.CortisolLevel + state.Fatigue)
	decay := math.Pow(1.0+beta*ageDays, -profile.DecayAlpha)

	// Extreme negative bias*emotion combinations would drive retention
	// below zero; clamp the term instead.
	bias := 1.0 + profile.EmotionalBias*m.Emotion
	if bias < 0 {
		bias = 0
	}

	return clamp(phase*decay*bias*m.MemoryStrength, 0.0, 1.0)
}

// recordRetrieval applies the reconsolidation side effect of a retrieval:
// the count advances and strength shrinks by the interference penalty.
// Strength is divided by 1 + rate, so it decreases monotonically and
// approaches zero asymptotically without ever going negative.
func (m *Memory) recordRetrieval(now time.Time, rate float64) {
	m.RetrievalCount++
	m.LastRetrievedAt = now
	m.RecallHistory = append(m.RecallHistory, now)
	if rate > 0 {
		m.MemoryStrength /= 1.0 + rate
	}
}

// clone deep-copies the memory so callers can never alias stored state.
func (m *Memory) clone() Memory {
	out := *m
	out.SemanticVector = append([]float32(nil), m.SemanticVector...)
	if m.Metadata != nil {
		out.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			out.Metadata[k] = v
		}
	}
	out.RecallHistory = append([]time.Time(nil), m.RecallHistory...)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
