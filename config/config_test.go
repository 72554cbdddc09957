package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/becomeliminal/engram-go/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
profile:
  decay_alpha: 1.2
  decay_beta: 0.05
  emotional_bias: 0.7
  capacity_factor: 22.0
  interference_rate: 0.15
state:
  current_age: 41.0
  fatigue: 0.3
maintenance:
  retention_threshold: 0.1
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile.DecayAlpha != 1.2 || cfg.Profile.CapacityFactor != 22.0 {
		t.Errorf("Profile = %+v", cfg.Profile)
	}
	if cfg.State.CurrentAge != 41.0 || cfg.State.Fatigue != 0.3 {
		t.Errorf("State = %+v", cfg.State)
	}
	if cfg.Maintenance.RetentionThreshold != 0.1 {
		t.Errorf("RetentionThreshold = %v", cfg.Maintenance.RetentionThreshold)
	}

	store, err := cfg.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Profile() != cfg.Profile {
		t.Error("Store profile does not match config")
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
profile:
  decay_alpha: 2.0
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defaults := config.Default()
	if cfg.Profile.DecayAlpha != 2.0 {
		t.Errorf("DecayAlpha = %v, want override 2.0", cfg.Profile.DecayAlpha)
	}
	if cfg.Profile.DecayBeta != defaults.Profile.DecayBeta {
		t.Errorf("DecayBeta = %v, want default %v", cfg.Profile.DecayBeta, defaults.Profile.DecayBeta)
	}
	if cfg.Maintenance.RetentionThreshold != defaults.Maintenance.RetentionThreshold {
		t.Errorf("RetentionThreshold = %v, want default", cfg.Maintenance.RetentionThreshold)
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	path := writeConfig(t, `
profile:
  decay_alpha: -1.0
`)
	if _, err := config.Load(path); err == nil {
		t.Fatal("Expected an error for a negative decay_alpha")
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	path := writeConfig(t, `
maintenance:
  retention_threshold: 1.5
`)
	if _, err := config.Load(path); err == nil {
		t.Fatal("Expected an error for a threshold outside [0, 1]")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "profile: [not a mapping")
	if _, err := config.Load(path); err == nil {
		t.Fatal("Expected an error for malformed YAML")
	}
}
