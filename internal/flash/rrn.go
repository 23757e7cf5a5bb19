package flash

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/rootfind"
)

// NResult is a converged multiphase split. Fractions[0] belongs to the
// reference phase; Compositions is indexed the same way.
type NResult struct {
	Fractions    []float64
	Compositions [][]float64
	Iterations   int
}

// SolveRRN generalizes Rachford-Rice to M phases. K[m][i] is the
// distribution ratio of component i between phase m+1 and the
// reference phase 0, so M = len(K)+1 phases in total. The (M-1)
// fraction unknowns solve the damped-Newton system
//
//	sum_i z_i (K_m,i - 1) / D_i = 0,  D_i = 1 + sum_m beta_m (K_m,i - 1)
//
// with optional seed fractions; the VLLE solver feeds its previous
// split back in here.
func SolveRRN(z []float64, K [][]float64, seed []float64) (NResult, error) {
	zn, err := eos.Normalize(z)
	if err != nil {
		return NResult{}, &eos.SolveError{Op: "flash", Err: err}
	}
	nExtra := len(K)
	if nExtra == 0 {
		return NResult{Fractions: []float64{1}, Compositions: [][]float64{zn}}, nil
	}
	for _, row := range K {
		if len(row) != len(zn) {
			return NResult{}, &eos.SolveError{Op: "flash", Err: eos.ErrOutOfDomain, Detail: "K row length mismatch"}
		}
		for _, k := range row {
			if k <= 0 || math.IsNaN(k) {
				return NResult{}, &eos.SolveError{Op: "flash", Err: eos.ErrOutOfDomain, Detail: "non-positive K-value"}
			}
		}
	}

	denom := func(beta []float64, i int) float64 {
		d := 1.0
		for m := 0; m < nExtra; m++ {
			d += beta[m] * (K[m][i] - 1)
		}
		return d
	}
	residual := func(beta []float64) ([]float64, error) {
		r := make([]float64, nExtra)
		for i := range zn {
			d := denom(beta, i)
			if d <= 0 {
				return nil, eos.ErrInfeasible
			}
			for m := 0; m < nExtra; m++ {
				r[m] += zn[i] * (K[m][i] - 1) / d
			}
		}
		return r, nil
	}

	b0 := seed
	if b0 == nil {
		b0 = make([]float64, nExtra)
		for m := range b0 {
			b0[m] = 1.0 / float64(nExtra+1)
		}
	}
	beta, iters, err := rootfind.System(residual, b0, rootfind.SystemOptions{
		Options: rootfind.Options{Tol: 1e-11},
		MaxStep: 0.2,
	})
	if err != nil {
		return NResult{}, &eos.SolveError{Op: "flash", Iter: iters, Err: err}
	}

	total := 0.0
	for _, b := range beta {
		if b < -1e-10 || b > 1+1e-10 {
			return NResult{}, &eos.SolveError{Op: "flash", Iter: iters, Err: eos.ErrInfeasible, Detail: "phase fraction outside [0,1]"}
		}
		total += b
	}
	if total > 1+1e-10 {
		return NResult{}, &eos.SolveError{Op: "flash", Iter: iters, Err: eos.ErrInfeasible, Detail: "fractions exceed unity"}
	}

	fractions := make([]float64, nExtra+1)
	fractions[0] = 1 - total
	copy(fractions[1:], beta)

	comps := make([][]float64, nExtra+1)
	ref := make([]float64, len(zn))
	for i := range zn {
		ref[i] = zn[i] / denom(beta, i)
	}
	comps[0] = ref
	for m := 0; m < nExtra; m++ {
		c := make([]float64, len(zn))
		for i := range zn {
			c[i] = K[m][i] * ref[i]
		}
		comps[m+1] = c
	}
	return NResult{Fractions: fractions, Compositions: comps, Iterations: iters}, nil
}
