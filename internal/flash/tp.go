package flash

import (
	"errors"
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/guess"
	"github.com/jmaravall/phaseq/internal/volume"
)

// TPResult is the outcome of a PT flash. A stable single-phase feed is
// a normal outcome, not an error: TwoPhase is false and Beta is 0 or 1
// depending on which side the feed is.
type TPResult struct {
	TwoPhase   bool
	Beta       float64
	X, Y       []float64
	Vliq, Vvap float64
	Iterations int
}

// Options configure the PT flash successive-substitution loop.
type Options struct {
	K0       []float64
	Provider guess.Provider
	Tol      float64
	MaxIter  int
}

func (o Options) withDefaults() Options {
	o.Provider = guess.OrDefault(o.Provider)
	if o.Tol <= 0 {
		o.Tol = 1e-9
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 200
	}
	return o
}

// SolveTP flashes feed z at fixed pressure and temperature: Wilson
// K-values seed a successive-substitution loop in which every pass
// solves the Rachford-Rice split and updates K from the
// fugacity-coefficient ratio between the two phase compositions.
func SolveTP(m eos.Model, p, T float64, z []float64, opt Options) (TPResult, error) {
	opt = opt.withDefaults()
	zn, err := eos.Normalize(z)
	if err != nil {
		return TPResult{}, &eos.SolveError{Op: "flash", Err: err}
	}

	K := opt.K0
	if K == nil {
		K, err = opt.Provider.WilsonK(m, p, T)
		if err != nil {
			return TPResult{}, &eos.SolveError{Op: "flash", Err: err, Detail: "no K seed"}
		}
	}
	K = append([]float64(nil), K...)

	for iter := 1; iter <= opt.MaxIter; iter++ {
		rr, err := SolveRR(zn, K)
		if errors.Is(err, eos.ErrInfeasible) {
			return singlePhase(m, p, T, zn, K, iter)
		}
		if err != nil {
			return TPResult{}, err
		}

		vl, err := volume.Solve(m, p, T, rr.X, eos.PhaseLiquid, volume.Options{})
		if err != nil {
			return TPResult{}, &eos.SolveError{Op: "flash", Iter: iter, Err: err, Detail: "liquid volume"}
		}
		vv, err := volume.Solve(m, p, T, rr.Y, eos.PhaseVapor, volume.Options{})
		if err != nil {
			return TPResult{}, &eos.SolveError{Op: "flash", Iter: iter, Err: err, Detail: "vapor volume"}
		}

		phiL := eos.LnPhi(m, eos.State{T: T, V: vl, N: rr.X})
		phiV := eos.LnPhi(m, eos.State{T: T, V: vv, N: rr.Y})

		shift := 0.0
		for i := range K {
			next := math.Exp(phiL[i] - phiV[i])
			if d := math.Abs(math.Log(next / K[i])); d > shift {
				shift = d
			}
			K[i] = next
		}
		if shift < opt.Tol {
			return TPResult{
				TwoPhase: true,
				Beta:     rr.Beta,
				X:        rr.X, Y: rr.Y,
				Vliq: vl, Vvap: vv,
				Iterations: iter,
			}, nil
		}
	}
	return TPResult{}, &eos.SolveError{Op: "flash", Iter: opt.MaxIter, Err: eos.ErrNotConverged}
}

// singlePhase classifies an infeasible split: sum z*K <= 1 is a
// subcooled liquid, sum z/K <= 1 a superheated vapor.
func singlePhase(m eos.Model, p, T float64, z, K []float64, iter int) (TPResult, error) {
	sumKz := 0.0
	for i := range z {
		sumKz += z[i] * K[i]
	}
	if sumKz <= 1 {
		v, err := volume.Solve(m, p, T, z, eos.PhaseLiquid, volume.Options{})
		if err != nil {
			return TPResult{}, &eos.SolveError{Op: "flash", Iter: iter, Err: err}
		}
		return TPResult{Beta: 0, X: z, Vliq: v, Iterations: iter}, nil
	}
	v, err := volume.Solve(m, p, T, z, eos.PhaseVapor, volume.Options{})
	if err != nil {
		return TPResult{}, &eos.SolveError{Op: "flash", Iter: iter, Err: err}
	}
	return TPResult{Beta: 1, Y: z, Vvap: v, Iterations: iter}, nil
}
