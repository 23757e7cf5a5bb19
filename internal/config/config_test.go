package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "pr" {
		t.Errorf("expected model pr, got %s", cfg.Model)
	}
	if len(cfg.Species) == 0 {
		t.Error("default config has no species")
	}
	if cfg.Conditions.T <= 0 {
		t.Error("temperature should be positive")
	}
	if cfg.Sweep.Steps <= 0 {
		t.Error("sweep steps should be positive")
	}
	if _, err := cfg.BuildModel(); err != nil {
		t.Errorf("default config does not build: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("symmetric-lle")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Species[0] != "species-a" || got.Species[1] != "species-b" {
		t.Errorf("species = %v", got.Species)
	}
	if len(got.Kij) != 1 || got.Kij[0].Value != 0.3 {
		t.Errorf("kij = %+v", got.Kij)
	}
	if got.Conditions.T != 130 || got.Conditions.P != 1.0e6 {
		t.Errorf("conditions = %+v", got.Conditions)
	}
	if _, err := got.BuildModel(); err != nil {
		t.Errorf("round-tripped config does not build: %v", err)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("species: [ethane]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "pr" {
		t.Errorf("model = %q, want default pr", cfg.Model)
	}
	if len(cfg.Species) != 1 || cfg.Species[0] != "ethane" {
		t.Errorf("species = %v", cfg.Species)
	}
	if cfg.Conditions.T != DefaultT {
		t.Errorf("T = %v, want default %v", cfg.Conditions.T, DefaultT)
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("got %d names, want %d", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i] <= names[i-1] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestPresetsAllBuild(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		m, err := cfg.BuildModel()
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		feed, err := cfg.GetFeed()
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(feed) != len(m.Names()) {
			t.Errorf("%s: feed length %d for %d species", name, len(feed), len(m.Names()))
		}
		sum := 0.0
		for _, z := range feed {
			sum += z
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("%s: feed sums to %v", name, sum)
		}
	}
}

func TestGetFeedDefaultsEquimolar(t *testing.T) {
	cfg := &Config{Model: "pr", Species: []string{"methane", "ethane"}}
	feed, err := cfg.GetFeed()
	if err != nil {
		t.Fatal(err)
	}
	if feed[0] != 0.5 || feed[1] != 0.5 {
		t.Errorf("feed = %v, want equimolar", feed)
	}
}

func TestGetFeedLengthMismatch(t *testing.T) {
	cfg := &Config{Model: "pr", Species: []string{"methane", "ethane"}, Feed: []float64{1}}
	if _, err := cfg.GetFeed(); err == nil {
		t.Error("expected error for mismatched feed length")
	}
}
