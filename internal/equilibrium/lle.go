package equilibrium

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/rootfind"
	"github.com/jmaravall/phaseq/internal/volume"
)

// distinctFloor separates a genuine liquid split from the trivial
// solution in which both phases converge to the feed composition.
const distinctFloor = 1e-4

// LLEResult is a converged liquid-liquid coexistence point. X1 is the
// feed-side liquid, X2 the incipient one.
type LLEResult struct {
	P          float64
	X1, X2     []float64
	Vl1, Vl2   float64
	Iterations int
}

// LLEPressure finds the pressure at which a second liquid phase
// becomes incipient against a liquid of composition z. Because liquid
// fugacities respond only weakly to pressure, the successive
// substitution used for bubble points stalls here; the solve is instead
// a damped Newton system in ln p and the incipient composition, with
// componentwise ln-fugacity equality as residuals and both phases on
// the liquid volume branch. The default seed mirrors the feed
// (components reversed), which starts the iteration well away from the
// trivial equal-composition root; converging onto the feed anyway is
// reported as [eos.ErrDegenerate].
func LLEPressure(m eos.Model, T float64, z []float64, opt Options) (LLEResult, error) {
	opt = opt.withDefaults()
	nc := len(m.Names())
	if nc < 2 {
		return LLEResult{}, &eos.SolveError{Op: "lle", Err: eos.ErrOutOfDomain, Detail: "pure component"}
	}
	x1, err := eos.Normalize(z)
	if err != nil {
		return LLEResult{}, &eos.SolveError{Op: "lle", Err: err}
	}
	if T <= 0 {
		return LLEResult{}, &eos.SolveError{Op: "lle", Err: eos.ErrOutOfDomain, Detail: "non-positive temperature"}
	}
	for _, v := range x1 {
		if v == 0 {
			return LLEResult{}, &eos.SolveError{Op: "lle", Err: eos.ErrOutOfDomain, Detail: "feed on the simplex boundary"}
		}
	}

	var p0 float64
	var w0 []float64
	if opt.Guess != nil {
		p0 = opt.Guess.P
		if opt.Guess.Comp != nil {
			w0, err = eos.Normalize(opt.Guess.Comp)
			if err != nil {
				return LLEResult{}, &eos.SolveError{Op: "lle", Err: err, Detail: "composition guess"}
			}
		}
	}
	if p0 <= 0 {
		p0, err = wilsonBlend(opt.Provider, m, T, x1)
		if err != nil {
			return LLEResult{}, &eos.SolveError{Op: "lle", Err: err, Detail: "no pressure seed"}
		}
	}
	if w0 == nil {
		w0 = make([]float64, nc)
		for i := range x1 {
			w0[i] = x1[nc-1-i]
		}
	}

	unpack := func(u []float64) (float64, []float64, error) {
		w := make([]float64, nc)
		last := 1.0
		for i := 0; i < nc-1; i++ {
			w[i] = u[1+i]
			last -= w[i]
			if w[i] <= 0 || w[i] >= 1 {
				return 0, nil, eos.ErrInfeasible
			}
		}
		if last <= 0 {
			return 0, nil, eos.ErrInfeasible
		}
		w[nc-1] = last
		return math.Exp(u[0]), w, nil
	}

	solve := func(p float64, x []float64) (float64, []float64, error) {
		v, err := volume.Solve(m, p, T, x, eos.PhaseLiquid, volume.Options{})
		if err != nil {
			return 0, nil, err
		}
		return v, eos.LnPhi(m, eos.State{T: T, V: v, N: x}), nil
	}

	residual := func(u []float64) ([]float64, error) {
		p, w, err := unpack(u)
		if err != nil {
			return nil, err
		}
		_, phi1, err := solve(p, x1)
		if err != nil {
			return nil, err
		}
		_, phi2, err := solve(p, w)
		if err != nil {
			return nil, err
		}
		r := make([]float64, nc)
		for i := range r {
			r[i] = phi1[i] + math.Log(x1[i]) - phi2[i] - math.Log(w[i])
		}
		return r, nil
	}

	u0 := make([]float64, nc)
	u0[0] = math.Log(p0)
	copy(u0[1:], w0[:nc-1])

	u, iters, err := rootfind.System(residual, u0, rootfind.SystemOptions{
		Options: rootfind.Options{Tol: opt.Tol, MaxIter: opt.MaxIter},
		MaxStep: 0.2,
	})
	if err != nil {
		return LLEResult{}, &eos.SolveError{Op: "lle", Iter: iters, Err: err}
	}

	p, x2, err := unpack(u)
	if err != nil {
		return LLEResult{}, &eos.SolveError{Op: "lle", Iter: iters, Err: err}
	}
	if eos.MaxDiff(x1, x2) < distinctFloor {
		return LLEResult{}, &eos.SolveError{Op: "lle", Iter: iters, Err: eos.ErrDegenerate, Detail: "liquids are not distinct"}
	}
	v1, _, err := solve(p, x1)
	if err != nil {
		return LLEResult{}, &eos.SolveError{Op: "lle", Iter: iters, Err: err}
	}
	v2, _, err := solve(p, x2)
	if err != nil {
		return LLEResult{}, &eos.SolveError{Op: "lle", Iter: iters, Err: err}
	}
	return LLEResult{P: p, X1: x1, X2: x2, Vl1: v1, Vl2: v2, Iterations: iters}, nil
}
