package critical

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/rootfind"
)

// MixPoint is a critical point with the composition among the solved
// unknowns, as produced by the fixed-pressure binary locator.
type MixPoint struct {
	T, V, P    float64
	Z          []float64
	Iterations int
}

// BinarySeed seeds the fixed-pressure binary solve.
type BinarySeed struct {
	T, V, Z1 float64
}

// SolveBinaryAtP finds the critical point of a binary mixture lying on
// the isobar p: a three-unknown Newton problem in (T, ln v, z1) on the
// Heidemann-Khalil conditions plus the pressure constraint. This is
// the per-step kernel of the UCST locus tracer.
func SolveBinaryAtP(m eos.Model, p float64, seed BinarySeed, opt Options) (MixPoint, error) {
	if len(m.Names()) != 2 {
		return MixPoint{}, &eos.SolveError{Op: "critical", Err: eos.ErrOutOfDomain, Detail: "not a binary"}
	}
	if seed.T <= 0 || seed.V <= 0 || seed.Z1 <= 0 || seed.Z1 >= 1 {
		return MixPoint{}, &eos.SolveError{Op: "critical", Err: eos.ErrOutOfDomain, Detail: "bad seed"}
	}
	t0 := seed.T

	residual := func(x []float64) ([]float64, error) {
		T := x[0] * t0
		v := math.Exp(x[1])
		z1 := x[2]
		if T <= 0 || z1 <= 0 || z1 >= 1 {
			return nil, eos.ErrInfeasible
		}
		z := []float64{z1, 1 - z1}
		s := eos.State{T: T, V: v, N: z}
		lam, c := stability(m, s)
		pres := (eos.Pressure(m, s) - p) * v / (eos.GasConstant * T)
		return []float64{lam, c, pres}, nil
	}

	x0 := []float64{1, math.Log(seed.V), seed.Z1}
	x, iters, err := rootfind.System(residual, x0, opt.system())
	if err != nil {
		return MixPoint{}, &eos.SolveError{Op: "critical", Iter: iters, Err: err}
	}
	T, v, z1 := x[0]*t0, math.Exp(x[1]), x[2]
	z := []float64{z1, 1 - z1}
	return MixPoint{
		T: T, V: v,
		P:          eos.Pressure(m, eos.State{T: T, V: v, N: z}),
		Z:          z,
		Iterations: iters,
	}, nil
}
