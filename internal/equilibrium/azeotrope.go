package equilibrium

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/rootfind"
	"github.com/jmaravall/phaseq/internal/volume"
)

// AzeotropePressure finds the composition and pressure at which vapor
// and liquid coincide at temperature T. The constraint y = x removes a
// full composition vector from the bubble problem, leaving a Newton
// system in ln p and the first N-1 mole fractions whose residuals are
// the componentwise fugacity-coefficient differences. An iterate that
// steps outside the open simplex ends the solve with
// [eos.ErrInfeasible]: no azeotrope in the explored range.
func AzeotropePressure(m eos.Model, T float64, opt Options) (Result, error) {
	opt = opt.withDefaults()
	nc := len(m.Names())
	if nc < 2 {
		return Result{}, &eos.SolveError{Op: "azeotrope", Err: eos.ErrOutOfDomain, Detail: "pure component"}
	}
	if T <= 0 {
		return Result{}, &eos.SolveError{Op: "azeotrope", Err: eos.ErrOutOfDomain, Detail: "non-positive temperature"}
	}

	x0 := make([]float64, nc)
	for i := range x0 {
		x0[i] = 1 / float64(nc)
	}
	var p0 float64
	if opt.Guess != nil {
		p0 = opt.Guess.P
		if opt.Guess.Comp != nil {
			xn, err := eos.Normalize(opt.Guess.Comp)
			if err != nil {
				return Result{}, &eos.SolveError{Op: "azeotrope", Err: err, Detail: "composition guess"}
			}
			x0 = xn
		}
	}
	if p0 <= 0 {
		var err error
		p0, err = wilsonBlend(opt.Provider, m, T, x0)
		if err != nil {
			return Result{}, &eos.SolveError{Op: "azeotrope", Err: err, Detail: "no pressure seed"}
		}
	}

	unpack := func(u []float64) (float64, []float64, error) {
		x := make([]float64, nc)
		last := 1.0
		for i := 0; i < nc-1; i++ {
			x[i] = u[1+i]
			last -= x[i]
			if x[i] <= 0 || x[i] >= 1 {
				return 0, nil, eos.ErrInfeasible
			}
		}
		if last <= 0 {
			return 0, nil, eos.ErrInfeasible
		}
		x[nc-1] = last
		return math.Exp(u[0]), x, nil
	}

	residual := func(u []float64) ([]float64, error) {
		p, x, err := unpack(u)
		if err != nil {
			return nil, err
		}
		vl, err := volume.Solve(m, p, T, x, eos.PhaseLiquid, volume.Options{})
		if err != nil {
			return nil, err
		}
		vv, err := volume.Solve(m, p, T, x, eos.PhaseVapor, volume.Options{})
		if err != nil {
			return nil, err
		}
		phiL := eos.LnPhi(m, eos.State{T: T, V: vl, N: x})
		phiV := eos.LnPhi(m, eos.State{T: T, V: vv, N: x})
		r := make([]float64, nc)
		for i := range r {
			r[i] = phiL[i] - phiV[i]
		}
		return r, nil
	}

	u0 := make([]float64, nc)
	u0[0] = math.Log(p0)
	copy(u0[1:], x0[:nc-1])

	u, iters, err := rootfind.System(residual, u0, rootfind.SystemOptions{
		Options: rootfind.Options{Tol: opt.Tol, MaxIter: opt.MaxIter},
		MaxStep: 0.2,
	})
	if err != nil {
		return Result{}, &eos.SolveError{Op: "azeotrope", Iter: iters, Err: err}
	}

	p, x, err := unpack(u)
	if err != nil {
		return Result{}, &eos.SolveError{Op: "azeotrope", Iter: iters, Err: err}
	}
	vl, err := volume.Solve(m, p, T, x, eos.PhaseLiquid, volume.Options{})
	if err != nil {
		return Result{}, &eos.SolveError{Op: "azeotrope", Iter: iters, Err: err}
	}
	vv, err := volume.Solve(m, p, T, x, eos.PhaseVapor, volume.Options{})
	if err != nil {
		return Result{}, &eos.SolveError{Op: "azeotrope", Iter: iters, Err: err}
	}
	// A "coincident phase" solution with equal volumes is the trivial
	// root, not an azeotrope.
	if math.Abs(math.Log(vv/vl)) < 1e-6 {
		return Result{}, &eos.SolveError{Op: "azeotrope", Iter: iters, Err: eos.ErrDegenerate, Detail: "phases collapsed"}
	}
	return Result{P: p, X: x, Y: append([]float64(nil), x...), Vliq: vl, Vvap: vv, Iterations: iters}, nil
}
