// Package flash solves phase-split mass balances: the scalar
// Rachford-Rice equation for two phases, its multiphase
// generalization, and a full two-phase PT flash that iterates K-values
// through the fugacity coefficients of an equation of state.
package flash

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/rootfind"
)

// trivialK is the all-K-near-one threshold below which the phase
// split is undetermined.
const trivialK = 1e-8

// Result is a converged two-phase split: vapor fraction and the
// liquid/vapor compositions.
type Result struct {
	Beta       float64
	X, Y       []float64
	Iterations int
}

// SolveRR solves the two-phase Rachford-Rice equation
//
//	sum_i z_i (K_i - 1) / (1 + beta (K_i - 1)) = 0
//
// for the vapor fraction beta in (0, 1). The function is strictly
// monotone decreasing on its feasible bracket, so the safeguarded
// Newton-bisection cannot pick a spurious root. Feeds outside the
// two-phase region fail with [eos.ErrInfeasible]; K-values all near
// one are degenerate and reported as such.
func SolveRR(z, K []float64) (Result, error) {
	if len(z) != len(K) {
		return Result{}, &eos.SolveError{Op: "flash", Err: eos.ErrOutOfDomain, Detail: "z and K length mismatch"}
	}
	zn, err := eos.Normalize(z)
	if err != nil {
		return Result{}, &eos.SolveError{Op: "flash", Err: err}
	}

	allTrivial := true
	for i, k := range K {
		if k <= 0 || math.IsNaN(k) {
			return Result{}, &eos.SolveError{Op: "flash", Err: eos.ErrOutOfDomain, Detail: "non-positive K-value"}
		}
		if zn[i] > 0 && math.Abs(k-1) > trivialK {
			allTrivial = false
		}
	}
	if allTrivial {
		return Result{}, &eos.SolveError{Op: "flash", Err: eos.ErrDegenerate, Detail: "all K-values near unity"}
	}

	g := func(beta float64) float64 {
		s := 0.0
		for i := range zn {
			s += zn[i] * (K[i] - 1) / (1 + beta*(K[i]-1))
		}
		return s
	}
	dg := func(beta float64) float64 {
		s := 0.0
		for i := range zn {
			d := 1 + beta*(K[i]-1)
			s -= zn[i] * (K[i] - 1) * (K[i] - 1) / (d * d)
		}
		return s
	}

	// g(0) > 0 and g(1) < 0 are the two-phase conditions.
	if g(0) <= 0 || g(1) >= 0 {
		return Result{}, &eos.SolveError{Op: "flash", Err: eos.ErrInfeasible, Detail: "feed outside two-phase region"}
	}

	beta, iters, err := rootfind.Scalar(g, dg, 0, 1, rootfind.Options{Tol: 1e-12})
	if err != nil {
		return Result{}, &eos.SolveError{Op: "flash", Iter: iters, Err: err}
	}

	x := make([]float64, len(zn))
	y := make([]float64, len(zn))
	for i := range zn {
		x[i] = zn[i] / (1 + beta*(K[i]-1))
		y[i] = K[i] * x[i]
	}
	return Result{Beta: beta, X: x, Y: y, Iterations: iters}, nil
}
