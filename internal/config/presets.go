package config

import (
	"sort"

	"github.com/jmaravall/phaseq/internal/components"
)

// symmetricPair is a pair of methane-like pseudo species used by the
// liquid-liquid presets; pushing their interaction parameter high
// enough opens a miscibility gap.
func symmetricPair() []components.Component {
	return []components.Component{
		{Name: "species-a", Tc: 190.564, Pc: 4.5992e6, Omega: 0.01142, Mw: 0.016043},
		{Name: "species-b", Tc: 190.564, Pc: 4.5992e6, Omega: 0.01142, Mw: 0.016043},
	}
}

func kijPair(i, j string, v float64) []components.KijEntry {
	return []components.KijEntry{{I: i, J: j, Value: v}}
}

// Presets are ready-made configurations for systems the solvers are
// known to behave well on.
var Presets = map[string]*Config{
	"methane-sat": {
		Model: "pr", Species: []string{"methane"},
		Conditions: ConditionsConfig{T: 150},
		Sweep:      SweepConfig{From: 110, To: 185, Steps: 15},
	},
	"ch4-c2h6-bubble": {
		Model: "pr", Species: []string{"methane", "ethane"},
		Feed:       []float64{0.5, 0.5},
		Conditions: ConditionsConfig{T: 180},
		Sweep:      SweepConfig{From: 0.05, To: 0.95, Steps: 18},
	},
	"ch4-c2h6-flash": {
		Model: "pr", Species: []string{"methane", "ethane"},
		Feed:       []float64{0.5, 0.5},
		Conditions: ConditionsConfig{T: 200, P: 2.0e6},
	},
	"ch4-c2h6-crit": {
		Model: "pr", Species: []string{"methane", "ethane"},
		Feed:       []float64{0.5, 0.5},
		Conditions: ConditionsConfig{T: 260},
	},
	"co2-c2h6-azeotrope": {
		Model: "pr", Species: []string{"carbon-dioxide", "ethane"},
		Kij:        kijPair("carbon-dioxide", "ethane", 0.13),
		Conditions: ConditionsConfig{T: 253},
	},
	"symmetric-lle": {
		Model: "pr", Species: []string{"species-a", "species-b"},
		Overrides:  symmetricPair(),
		Kij:        kijPair("species-a", "species-b", 0.3),
		Feed:       []float64{0.09, 0.91},
		Conditions: ConditionsConfig{T: 130, P: 1.0e6},
	},
	"symmetric-vlle": {
		Model: "pr", Species: []string{"species-a", "species-b"},
		Overrides:  symmetricPair(),
		Kij:        kijPair("species-a", "species-b", 0.25),
		Feed:       []float64{0.5, 0.5},
		Conditions: ConditionsConfig{T: 130},
		Sweep:      SweepConfig{From: 130, To: 139, Steps: 9},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the preset names sorted alphabetically.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
