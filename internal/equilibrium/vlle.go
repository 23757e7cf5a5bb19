package equilibrium

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/flash"
	"github.com/jmaravall/phaseq/internal/guess"
	"github.com/jmaravall/phaseq/internal/rootfind"
	"github.com/jmaravall/phaseq/internal/volume"
)

// VLLEResult is a three-phase coexistence point of a binary system.
// Fractions holds the phase split of the feed in the order liquid 1,
// liquid 2, vapor.
type VLLEResult struct {
	P            float64
	X1, X2, Y    []float64
	Vl1, Vl2, Vv float64
	Fractions    []float64
	Iterations   int
}

// VLLEGuess seeds the three-phase solve. Nil composition fields fall
// back to seeds derived from the feed.
type VLLEGuess struct {
	P         float64
	X1, X2, Y []float64
}

// VLLEOptions configure the three-phase Newton solve.
type VLLEOptions struct {
	Guess   *VLLEGuess
	Tol     float64
	MaxIter int
}

func (o VLLEOptions) withDefaults() VLLEOptions {
	if o.Tol <= 0 {
		o.Tol = 1e-9
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 100
	}
	return o
}

// VLLE locates the three-phase pressure of a binary mixture at
// temperature T. For a binary the intensive state is fully determined
// by T, so the Newton unknowns are ln p and the three first-component
// fractions, with the four componentwise fugacity equalities as
// residuals. The feed z enters only the extensive split, recovered
// afterwards from a Rachford-Rice balance between the liquids; a feed
// outside the three-phase region surfaces as [eos.ErrInfeasible] there.
func VLLE(m eos.Model, T float64, z []float64, opt VLLEOptions) (VLLEResult, error) {
	opt = opt.withDefaults()
	if len(m.Names()) != 2 {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Err: eos.ErrOutOfDomain, Detail: "binary mixtures only"}
	}
	zn, err := eos.Normalize(z)
	if err != nil {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Err: err}
	}
	if T <= 0 {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Err: eos.ErrOutOfDomain, Detail: "non-positive temperature"}
	}

	u0, err := vlleSeed(m, T, zn, opt)
	if err != nil {
		return VLLEResult{}, err
	}

	type phases struct {
		x1, x2, y  []float64
		v1, v2, vv float64
	}
	eval := func(u []float64) (phases, error) {
		var ph phases
		p := math.Exp(u[0])
		comps := [3]float64{u[1], u[2], u[3]}
		for _, c := range comps {
			if c <= 0 || c >= 1 {
				return ph, eos.ErrInfeasible
			}
		}
		ph.x1 = []float64{comps[0], 1 - comps[0]}
		ph.x2 = []float64{comps[1], 1 - comps[1]}
		ph.y = []float64{comps[2], 1 - comps[2]}
		var errV error
		if ph.v1, errV = volume.Solve(m, p, T, ph.x1, eos.PhaseLiquid, volume.Options{}); errV != nil {
			return ph, errV
		}
		if ph.v2, errV = volume.Solve(m, p, T, ph.x2, eos.PhaseLiquid, volume.Options{}); errV != nil {
			return ph, errV
		}
		if ph.vv, errV = volume.Solve(m, p, T, ph.y, eos.PhaseVapor, volume.Options{}); errV != nil {
			return ph, errV
		}
		return ph, nil
	}

	residual := func(u []float64) ([]float64, error) {
		ph, err := eval(u)
		if err != nil {
			return nil, err
		}
		phi1 := eos.LnPhi(m, eos.State{T: T, V: ph.v1, N: ph.x1})
		phi2 := eos.LnPhi(m, eos.State{T: T, V: ph.v2, N: ph.x2})
		phiV := eos.LnPhi(m, eos.State{T: T, V: ph.vv, N: ph.y})
		r := make([]float64, 4)
		for i := 0; i < 2; i++ {
			// ln f_i equality of each liquid against the vapor.
			r[i] = phi1[i] + math.Log(ph.x1[i]) - phiV[i] - math.Log(ph.y[i])
			r[2+i] = phi2[i] + math.Log(ph.x2[i]) - phiV[i] - math.Log(ph.y[i])
		}
		return r, nil
	}

	u, iters, err := rootfind.System(residual, u0, rootfind.SystemOptions{
		Options: rootfind.Options{Tol: opt.Tol, MaxIter: opt.MaxIter},
		MaxStep: 0.2,
	})
	if err != nil {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Iter: iters, Err: err}
	}
	ph, err := eval(u)
	if err != nil {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Iter: iters, Err: err}
	}
	if eos.MaxDiff(ph.x1, ph.x2) < distinctFloor {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Iter: iters, Err: eos.ErrDegenerate, Detail: "liquids are not distinct"}
	}

	// On the three-phase line of a binary the phase rule leaves the
	// split indeterminate, so the vapor is reported incipient and the
	// feed levers between the two liquids.
	split, err := flash.SolveRR(zn, []float64{ph.x2[0] / ph.x1[0], ph.x2[1] / ph.x1[1]})
	if err != nil {
		return VLLEResult{}, &eos.SolveError{Op: "vlle", Iter: iters, Err: err, Detail: "feed outside three-phase region"}
	}

	return VLLEResult{
		P:  math.Exp(u[0]),
		X1: ph.x1, X2: ph.x2, Y: ph.y,
		Vl1: ph.v1, Vl2: ph.v2, Vv: ph.vv,
		Fractions:  []float64{1 - split.Beta, split.Beta, 0},
		Iterations: iters,
	}, nil
}

// vlleSeed builds the Newton start. The default composition seed puts
// each liquid rich in a different component and the vapor between them,
// which keeps the first Jacobian well away from the trivial equal-phase
// root.
func vlleSeed(m eos.Model, T float64, z []float64, opt VLLEOptions) ([]float64, error) {
	u := []float64{0, 0.85, 0.15, 0.5}
	var p float64
	if opt.Guess != nil {
		g := opt.Guess
		p = g.P
		for slot, c := range [][]float64{g.X1, g.X2, g.Y} {
			if c == nil {
				continue
			}
			cn, err := eos.Normalize(c)
			if err != nil {
				return nil, &eos.SolveError{Op: "vlle", Err: err, Detail: "composition guess"}
			}
			u[1+slot] = cn[0]
		}
	}
	if p <= 0 {
		var err error
		p, err = wilsonBlend(guess.OrDefault(nil), m, T, z)
		if err != nil {
			return nil, &eos.SolveError{Op: "vlle", Err: err, Detail: "no pressure seed"}
		}
	}
	u[0] = math.Log(p)
	return u, nil
}
