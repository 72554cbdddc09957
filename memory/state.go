package memory

// AgentState is the mutable runtime context of an agent. Scoring reads it;
// the store never writes it. Callers replace the whole value between
// operations via Store.UpdateState as the agent's condition changes.
//
// All fields except CurrentAge are normalized to [0, 1].
type AgentState struct {
	// CurrentAge is the agent's age, in the same units as a memory's
	// AgeAtFormation (typically years).
	CurrentAge float64 `json:"current_age" yaml:"current_age"`

	// SleepDebt is accumulated sleep deprivation.
	SleepDebt float64 `json:"sleep_debt" yaml:"sleep_debt"`

	// CortisolLevel is the current stress level. Stress accelerates
	// forgetting by shortening the decay timescale.
	CortisolLevel float64 `json:"cortisol_level" yaml:"cortisol_level"`

	// Fatigue is the current exhaustion level; like stress it shortens
	// the decay timescale.
	Fatigue float64 `json:"fatigue" yaml:"fatigue"`

	// TrainingFactor reflects accumulated practice or expertise.
	TrainingFactor float64 `json:"training_factor" yaml:"training_factor"`
}

// DefaultState returns a rested, unstressed adult state.
func DefaultState() AgentState {
	return AgentState{CurrentAge: 30.0}
}
