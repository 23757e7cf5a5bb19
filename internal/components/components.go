// Package components holds the species parameter database: a built-in
// table of critical constants for common fluids, YAML-loadable user
// tables, and the assembly of immutable eos.ParamSet bundles from a
// requested species list.
package components

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jmaravall/phaseq/internal/eos"
)

// Component is one species record: critical temperature [K], critical
// pressure [Pa], acentric factor and molar mass [kg/mol].
type Component struct {
	Name  string  `yaml:"name"`
	Tc    float64 `yaml:"tc"`
	Pc    float64 `yaml:"pc"`
	Omega float64 `yaml:"omega"`
	Mw    float64 `yaml:"mw"`
}

// DB maps species names to records. A DB is built once (builtin table
// plus any user files) and read-only afterwards.
type DB struct {
	byName map[string]Component
}

// Builtin returns a database preloaded with the built-in species table.
func Builtin() *DB {
	db := &DB{byName: make(map[string]Component, len(builtin))}
	for _, c := range builtin {
		db.byName[c.Name] = c
	}
	return db
}

// Critical constants from the usual compilations (Poling, Prausnitz &
// O'Connell), SI units.
var builtin = []Component{
	{"methane", 190.564, 4.5992e6, 0.01142, 0.016043},
	{"ethane", 305.322, 4.8722e6, 0.0995, 0.030070},
	{"propane", 369.89, 4.2512e6, 0.1521, 0.044096},
	{"n-butane", 425.125, 3.796e6, 0.2002, 0.058122},
	{"i-butane", 407.81, 3.629e6, 0.184, 0.058122},
	{"n-pentane", 469.7, 3.370e6, 0.2515, 0.072149},
	{"n-hexane", 507.82, 3.034e6, 0.2996, 0.086175},
	{"n-octane", 569.32, 2.497e6, 0.3996, 0.114229},
	{"nitrogen", 126.192, 3.3958e6, 0.0372, 0.028014},
	{"oxygen", 154.581, 5.0430e6, 0.0222, 0.031999},
	{"carbon-dioxide", 304.1282, 7.3773e6, 0.22394, 0.044010},
	{"hydrogen-sulfide", 373.1, 9.0e6, 0.1005, 0.034081},
	{"water", 647.096, 22.064e6, 0.3443, 0.018015},
	{"ammonia", 405.4, 11.333e6, 0.256, 0.017031},
}

type fileSchema struct {
	Components []Component `yaml:"components"`
}

// LoadFile merges a user YAML species table into the database,
// overriding builtin records of the same name.
func (db *DB) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f fileSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("components: %s: %w", path, err)
	}
	for _, c := range f.Components {
		if c.Name == "" || c.Tc <= 0 || c.Pc <= 0 {
			return fmt.Errorf("components: %s: invalid record %q", path, c.Name)
		}
		db.byName[c.Name] = c
	}
	return nil
}

// Put inserts or overrides a single record.
func (db *DB) Put(c Component) error {
	if c.Name == "" || c.Tc <= 0 || c.Pc <= 0 {
		return fmt.Errorf("components: invalid record %q", c.Name)
	}
	db.byName[c.Name] = c
	return nil
}

func (db *DB) Get(name string) (Component, error) {
	c, ok := db.byName[name]
	if !ok {
		return Component{}, fmt.Errorf("components: unknown species %q", name)
	}
	return c, nil
}

// Names returns every known species sorted alphabetically.
func (db *DB) Names() []string {
	out := make([]string, 0, len(db.byName))
	for name := range db.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParamSet assembles the immutable parameter bundle for the requested
// species, in request order. kij may be nil (all zeros) or a full
// symmetric matrix in the same order.
func (db *DB) ParamSet(names []string, kij [][]float64) (*eos.ParamSet, error) {
	nc := len(names)
	tc := make([]float64, nc)
	pc := make([]float64, nc)
	omega := make([]float64, nc)
	mw := make([]float64, nc)
	for i, name := range names {
		c, err := db.Get(name)
		if err != nil {
			return nil, err
		}
		tc[i], pc[i], omega[i], mw[i] = c.Tc, c.Pc, c.Omega, c.Mw
	}
	scalars := map[string][]float64{"tc": tc, "pc": pc, "omega": omega, "mw": mw}
	pairs := map[string][][]float64{}
	if kij != nil {
		pairs["kij"] = kij
	}
	return eos.NewParamSet(names, scalars, pairs)
}
