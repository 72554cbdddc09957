package memory

import (
	"fmt"
	"math"
)

// AgentProfile holds the immutable per-agent parameters that shape how
// memories decay and how emotion amplifies retention. A profile is set once
// at store construction and shared by every retention computation.
type AgentProfile struct {
	// DecayAlpha is the exponent of the power-law forgetting curve.
	// Higher values forget faster. Typical range: 0.1 to 2.0.
	DecayAlpha float64 `json:"decay_alpha" yaml:"decay_alpha"`

	// DecayBeta is the base timescale of the forgetting curve, in
	// inverse days. Higher values compress the curve.
	DecayBeta float64 `json:"decay_beta" yaml:"decay_beta"`

	// EmotionalBias scales how much a memory's emotional valence
	// amplifies (positive valence) or dampens (negative valence)
	// retention. Typical range: 0.0 to 2.0.
	EmotionalBias float64 `json:"emotional_bias" yaml:"emotional_bias"`

	// CapacityFactor controls the sigmoid formation-plasticity curve:
	// memories formed past this agent age encode progressively weaker.
	CapacityFactor float64 `json:"capacity_factor" yaml:"capacity_factor"`

	// InterferenceRate is the per-retrieval interference penalty: each
	// retrieval divides a memory's strength by 1 + InterferenceRate.
	// Zero disables interference.
	InterferenceRate float64 `json:"interference_rate" yaml:"interference_rate"`
}

// DefaultProfile returns balanced parameters: slow power-law decay, moderate
// emotional weighting, and mild retrieval interference.
func DefaultProfile() AgentProfile {
	return AgentProfile{
		DecayAlpha:       0.8,
		DecayBeta:        0.01,
		EmotionalBias:    0.5,
		CapacityFactor:   1.0,
		InterferenceRate: 0.1,
	}
}

// Validate reports whether the profile is usable: every field finite, and
// fields where negativity is meaningless (decay shape, interference)
// non-negative.
func (p AgentProfile) Validate() error {
	fields := map[string]float64{
		"decay_alpha":       p.DecayAlpha,
		"decay_beta":        p.DecayBeta,
		"emotional_bias":    p.EmotionalBias,
		"capacity_factor":   p.CapacityFactor,
		"interference_rate": p.InterferenceRate,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, name)
		}
	}
	if p.DecayAlpha < 0 {
		return invalidParameterError("decay_alpha", p.DecayAlpha)
	}
	if p.DecayBeta < 0 {
		return invalidParameterError("decay_beta", p.DecayBeta)
	}
	if p.InterferenceRate < 0 {
		return invalidParameterError("interference_rate", p.InterferenceRate)
	}
	return nil
}
