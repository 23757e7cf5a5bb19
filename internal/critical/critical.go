// Package critical locates critical points: the state where the
// spinodal degenerates. For a pure substance that is the pair of
// conditions dP/dV = 0 and d2P/dV2 = 0 in (T, V); for a mixture the
// Heidemann-Khalil form replaces them with the vanishing of the
// smallest eigenvalue of the composition-stability matrix and of the
// cubic form along its eigenvector.
package critical

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/guess"
	"github.com/jmaravall/phaseq/internal/rootfind"
)

// Point is a converged critical point of a fixed composition.
type Point struct {
	T, V, P    float64
	Iterations int
}

// Seed overrides the provider's critical estimate.
type Seed struct {
	T, V float64
}

type Options struct {
	Seed     *Seed
	Provider guess.Provider
	Tol      float64
	MaxIter  int
}

func (o Options) system() rootfind.SystemOptions {
	tol := o.Tol
	if tol <= 0 {
		// The second pressure derivative comes from finite differences
		// whose noise floor sits near 1e-7 in the scaled residuals;
		// asking for more just burns the budget.
		tol = 1e-6
	}
	iter := o.MaxIter
	if iter <= 0 {
		iter = 80
	}
	return rootfind.SystemOptions{Options: rootfind.Options{Tol: tol, MaxIter: iter}, MaxStep: 0.2}
}

func (o Options) seed(m eos.Model, n []float64) (T, v float64, err error) {
	if o.Seed != nil && o.Seed.T > 0 && o.Seed.V > 0 {
		return o.Seed.T, o.Seed.V, nil
	}
	return guess.OrDefault(o.Provider).CriticalSeed(m, n)
}

// SolvePure finds the critical point of a single-component model by a
// damped Newton iteration on the reduced unknowns (T/T0, ln v).
func SolvePure(m eos.Model, opt Options) (Point, error) {
	if len(m.Names()) != 1 {
		return Point{}, &eos.SolveError{Op: "critical", Err: eos.ErrOutOfDomain, Detail: "model is not pure"}
	}
	n := []float64{1}
	t0, v0, err := opt.seed(m, n)
	if err != nil {
		return Point{}, &eos.SolveError{Op: "critical", Err: err, Detail: "no seed"}
	}

	residual := func(x []float64) ([]float64, error) {
		T := x[0] * t0
		v := math.Exp(x[1])
		if T <= 0 {
			return nil, eos.ErrOutOfDomain
		}
		s := eos.State{T: T, V: v, N: n}
		rt := eos.GasConstant * T
		return []float64{
			eos.DPressureDV(m, s) * v * v / rt,
			eos.D2PressureDV2(m, s) * v * v * v / rt,
		}, nil
	}

	x, iters, err := rootfind.System(residual, []float64{1, math.Log(v0)}, opt.system())
	if err != nil {
		return Point{}, &eos.SolveError{Op: "critical", Iter: iters, Err: err}
	}
	T, v := x[0]*t0, math.Exp(x[1])
	p := eos.Pressure(m, eos.State{T: T, V: v, N: n})
	if p <= 0 {
		return Point{}, &eos.SolveError{Op: "critical", Iter: iters, Err: eos.ErrOutOfDomain, Detail: "negative critical pressure"}
	}
	return Point{T: T, V: v, P: p, Iterations: iters}, nil
}

// SolveMixture finds the critical point of composition z via the
// Heidemann-Khalil conditions. The composition direction is the
// eigenvector of the stability matrix, recomputed at every iterate.
func SolveMixture(m eos.Model, z []float64, opt Options) (Point, error) {
	zn, err := eos.Normalize(z)
	if err != nil {
		return Point{}, &eos.SolveError{Op: "critical", Err: err}
	}
	t0, v0, err := opt.seed(m, zn)
	if err != nil {
		return Point{}, &eos.SolveError{Op: "critical", Err: err, Detail: "no seed"}
	}

	residual := func(x []float64) ([]float64, error) {
		T := x[0] * t0
		v := math.Exp(x[1])
		if T <= 0 {
			return nil, eos.ErrOutOfDomain
		}
		lam, c := stability(m, eos.State{T: T, V: v, N: zn})
		return []float64{lam, c}, nil
	}

	x, iters, err := rootfind.System(residual, []float64{1, math.Log(v0)}, opt.system())
	if err != nil {
		return Point{}, &eos.SolveError{Op: "critical", Iter: iters, Err: err}
	}
	T, v := x[0]*t0, math.Exp(x[1])
	p := eos.Pressure(m, eos.State{T: T, V: v, N: zn})
	return Point{T: T, V: v, P: p, Iterations: iters}, nil
}

// stability returns the smallest eigenvalue of the scaled stability
// matrix and the cubic form along its eigenvector.
func stability(m eos.Model, s eos.State) (lambda, cubic float64) {
	nc := len(s.N)
	b := eos.StabilityMatrix(m, s)
	sym := mat.NewSymDense(nc, nil)
	for i := 0; i < nc; i++ {
		for j := i; j < nc; j++ {
			sym.SetSym(i, j, 0.5*(b[i][j]+b[j][i]))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return math.NaN(), math.NaN()
	}
	vals := eig.Values(nil) // ascending
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Fixed sign convention keeps the direction continuous between
	// iterates.
	u := make([]float64, nc)
	for i := range u {
		u[i] = vecs.At(i, 0)
	}
	for i := range u {
		if math.Abs(u[i]) > 1e-12 {
			if u[i] < 0 {
				for j := range u {
					u[j] = -u[j]
				}
			}
			break
		}
	}

	// Mole-number direction dn_i = u_i sqrt(n_i); the ideal part of
	// the third derivative is -dn_i^3/n_i^2.
	d := make([]float64, nc)
	cubic = 0
	for i := range d {
		d[i] = u[i] * math.Sqrt(s.N[i])
		cubic -= d[i] * d[i] * d[i] / (s.N[i] * s.N[i])
	}
	cubic += eos.ResidualDir3(m, s, d)
	return vals[0], cubic
}
