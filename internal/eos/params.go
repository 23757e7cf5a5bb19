package eos

import "fmt"

// ScalarTable is a named per-component parameter column. It is
// immutable after construction.
type ScalarTable struct {
	name string
	vals []float64
}

func (t ScalarTable) Name() string { return t.name }

func (t ScalarTable) Len() int { return len(t.vals) }

func (t ScalarTable) At(i int) float64 { return t.vals[i] }

func (t ScalarTable) Values() []float64 {
	out := make([]float64, len(t.vals))
	copy(out, t.vals)
	return out
}

// PairTable is a named symmetric component-pair parameter matrix,
// immutable after construction.
type PairTable struct {
	name string
	n    int
	vals []float64
}

func (t PairTable) Name() string { return t.name }

func (t PairTable) At(i, j int) float64 { return t.vals[i*t.n+j] }

// ParamSet is the immutable parameter bundle a model is built from:
// the component list plus any number of named scalar columns and
// symmetric pair matrices. Construction validates shapes and deep
// copies every input, so a ParamSet can be shared freely.
type ParamSet struct {
	components []string
	scalars    map[string]ScalarTable
	pairs      map[string]PairTable
}

func NewParamSet(components []string, scalars map[string][]float64, pairs map[string][][]float64) (*ParamSet, error) {
	nc := len(components)
	if nc == 0 {
		return nil, fmt.Errorf("eos: empty component list")
	}
	ps := &ParamSet{
		components: append([]string(nil), components...),
		scalars:    make(map[string]ScalarTable, len(scalars)),
		pairs:      make(map[string]PairTable, len(pairs)),
	}
	for name, vals := range scalars {
		if len(vals) != nc {
			return nil, fmt.Errorf("eos: scalar table %q has %d entries for %d components", name, len(vals), nc)
		}
		ps.scalars[name] = ScalarTable{name: name, vals: append([]float64(nil), vals...)}
	}
	for name, m := range pairs {
		if len(m) != nc {
			return nil, fmt.Errorf("eos: pair table %q has %d rows for %d components", name, len(m), nc)
		}
		flat := make([]float64, nc*nc)
		for i, row := range m {
			if len(row) != nc {
				return nil, fmt.Errorf("eos: pair table %q row %d has %d entries", name, i, len(row))
			}
			copy(flat[i*nc:], row)
		}
		for i := 0; i < nc; i++ {
			for j := i + 1; j < nc; j++ {
				if flat[i*nc+j] != flat[j*nc+i] {
					return nil, fmt.Errorf("eos: pair table %q is not symmetric at (%d,%d)", name, i, j)
				}
			}
		}
		ps.pairs[name] = PairTable{name: name, n: nc, vals: flat}
	}
	return ps, nil
}

func (p *ParamSet) Components() []string {
	return append([]string(nil), p.components...)
}

func (p *ParamSet) Len() int { return len(p.components) }

func (p *ParamSet) Scalar(name string) (ScalarTable, bool) {
	t, ok := p.scalars[name]
	return t, ok
}

func (p *ParamSet) Pair(name string) (PairTable, bool) {
	t, ok := p.pairs[name]
	return t, ok
}
