package eos

import "math"

// GasConstant is the molar gas constant in J/(mol·K).
const GasConstant = 8.31446261815324

type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseLiquid
	PhaseVapor
)

func (p Phase) String() string {
	switch p {
	case PhaseLiquid:
		return "liquid"
	case PhaseVapor:
		return "vapor"
	default:
		return "unknown"
	}
}

// State bundles the evaluation point of a model: temperature, total
// volume and mole numbers. It is passed by value; the mole-number slice
// is shared and must be treated as read-only.
type State struct {
	T float64
	V float64
	N []float64
}

func (s State) Moles() float64 {
	total := 0.0
	for _, n := range s.N {
		total += n
	}
	return total
}

func (s State) IsValid() bool {
	if math.IsNaN(s.T) || math.IsInf(s.T, 0) || s.T <= 0 {
		return false
	}
	if math.IsNaN(s.V) || math.IsInf(s.V, 0) || s.V <= 0 {
		return false
	}
	for _, n := range s.N {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return false
		}
	}
	return true
}

func (s State) Clone() State {
	n := make([]float64, len(s.N))
	copy(n, s.N)
	return State{T: s.T, V: s.V, N: n}
}

// withV returns a copy of the state at a different volume. The mole
// slice is shared, which is safe because accessors never write to it.
func (s State) withV(v float64) State {
	s.V = v
	return s
}

// Model is the evaluator contract every equation of state satisfies.
type Model interface {
	// Names returns the ordered component identifiers. Composition
	// slices everywhere in phaseq follow this ordering.
	Names() []string

	// Residual evaluates the reduced residual Helmholtz energy
	// F = A_res(n, V, T)/RT as a pure function of the state.
	Residual(s State) float64

	// CoVolume returns a strict lower bound on the volume occupied by
	// the given mole numbers. Liquid-side searches start just above it.
	CoVolume(n []float64) float64
}

type PressureProvider interface {
	Pressure(s State) float64
}

type CriticalConstants interface {
	CriticalTemps() []float64
	CriticalPressures() []float64
	AcentricFactors() []float64
}

type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
