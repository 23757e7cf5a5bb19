// Package config holds the YAML run configuration the CLI consumes:
// model family, species list, pair interactions and run conditions,
// plus a set of named presets for common systems.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmaravall/phaseq/internal/components"
	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/models"
)

const (
	DefaultModel = "pr"
	DefaultT     = 150.0
	DefaultP     = 1.0e6
	DefaultSteps = 20
)

type Config struct {
	Model      string                 `yaml:"model"`
	Species    []string               `yaml:"species"`
	Overrides  []components.Component `yaml:"overrides,omitempty"`
	Kij        []components.KijEntry  `yaml:"kij,omitempty"`
	Feed       []float64              `yaml:"feed,omitempty"`
	Conditions ConditionsConfig       `yaml:"conditions"`
	Sweep      SweepConfig            `yaml:"sweep"`
	Solver     SolverConfig           `yaml:"solver,omitempty"`
}

// ConditionsConfig fixes the state a single solve runs at. Solvers use
// the fields they need: a flash reads both, a bubble point reads T and
// treats P as the pressure seed when non-zero.
type ConditionsConfig struct {
	T float64 `yaml:"t"`
	P float64 `yaml:"p,omitempty"`
}

// SweepConfig spans the grid of a curve run. The swept quantity
// depends on the command: temperature for saturation curves and
// three-phase loci, liquid composition for envelopes, pressure for
// critical branches.
type SweepConfig struct {
	From    float64 `yaml:"from"`
	To      float64 `yaml:"to"`
	Steps   int     `yaml:"steps"`
	Workers int     `yaml:"workers,omitempty"`
	Seeded  bool    `yaml:"seeded,omitempty"`
}

// SolverConfig overrides per-solver iteration defaults when non-zero.
type SolverConfig struct {
	Tol     float64 `yaml:"tol,omitempty"`
	MaxIter int     `yaml:"max_iter,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Species:    []string{"methane"},
		Conditions: ConditionsConfig{T: DefaultT, P: DefaultP},
		Sweep:      SweepConfig{From: 110, To: 185, Steps: DefaultSteps},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Database returns the species database this run resolves against:
// the builtin table with the config's inline overrides applied.
func (c *Config) Database() (*components.DB, error) {
	db := components.Builtin()
	for _, rec := range c.Overrides {
		if err := db.Put(rec); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// BuildModel assembles the configured equation of state: species
// records from the database, the expanded kij matrix, and the model
// family by name.
func (c *Config) BuildModel() (eos.Model, error) {
	if len(c.Species) == 0 {
		return nil, fmt.Errorf("config: no species configured")
	}
	db, err := c.Database()
	if err != nil {
		return nil, err
	}
	var kij [][]float64
	if len(c.Kij) > 0 {
		kij, err = components.ExpandKij(c.Kij, c.Species)
		if err != nil {
			return nil, err
		}
	}
	ps, err := db.ParamSet(c.Species, kij)
	if err != nil {
		return nil, err
	}
	return models.New(c.Model, ps)
}

// GetFeed returns the configured feed, or an equimolar one when the
// config leaves it out.
func (c *Config) GetFeed() ([]float64, error) {
	nc := len(c.Species)
	if len(c.Feed) == 0 {
		z := make([]float64, nc)
		for i := range z {
			z[i] = 1 / float64(nc)
		}
		return z, nil
	}
	if len(c.Feed) != nc {
		return nil, fmt.Errorf("config: feed has %d entries for %d species", len(c.Feed), nc)
	}
	return append([]float64(nil), c.Feed...), nil
}
