package equilibrium

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/guess"
	"github.com/jmaravall/phaseq/internal/volume"
)

// Result is a converged two-phase boundary point. X is the liquid and
// Y the vapor composition; at an azeotrope the two are equal.
type Result struct {
	P          float64
	X, Y       []float64
	Vliq, Vvap float64
	Iterations int
}

// Guess seeds a solve explicitly. P seeds the pressure, Comp the
// composition of the incipient phase. Zero fields fall back to the
// provider correlations.
type Guess struct {
	P    float64
	Comp []float64
}

// Options configure the outer iteration. A nil Provider means the
// default correlation provider.
type Options struct {
	Guess    *Guess
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

// wilsonBlend is the mole-fraction weighted sum of the Wilson vapor
// pressures, the classic pressure seed for bubble-type iterations.
// WilsonK at unit pressure is exactly the pure vapor pressure estimate.
func wilsonBlend(p guess.Provider, m eos.Model, T float64, x []float64) (float64, error) {
	k, err := p.WilsonK(m, 1, T)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range x {
		sum += x[i] * k[i]
	}
	if sum <= 0 || math.IsInf(sum, 0) {
		return 0, eos.ErrOutOfDomain
	}
	return sum, nil
}

// BubblePressure finds the pressure at which the first vapor bubble
// leaves a liquid of composition x at temperature T. Each pass solves
// both phase volumes at the current pressure, updates the vapor
// composition from the fugacity-coefficient ratio, and scales the
// pressure by the vapor-fraction sum; the fixed point has that sum at
// exactly one.
func BubblePressure(m eos.Model, T float64, x []float64, opt Options) (Result, error) {
	return incipient(m, T, x, opt, "bubble")
}

// DewPressure is the mirror solve: given the vapor composition y it
// finds the pressure of the first liquid drop. The incipient phase is
// the liquid and the pressure update divides by the liquid sum.
func DewPressure(m eos.Model, T float64, y []float64, opt Options) (Result, error) {
	return incipient(m, T, y, opt, "dew")
}

func incipient(m eos.Model, T float64, feed []float64, opt Options, op string) (Result, error) {
	opt = opt.withDefaults()
	z, err := eos.Normalize(feed)
	if err != nil {
		return Result{}, &eos.SolveError{Op: op, Err: err}
	}
	if T <= 0 {
		return Result{}, &eos.SolveError{Op: op, Err: eos.ErrOutOfDomain, Detail: "non-positive temperature"}
	}

	p, w, err := incipientSeed(m, T, z, opt, op)
	if err != nil {
		return Result{}, err
	}

	fixedIsLiquid := op == "bubble"
	for iter := 1; iter <= opt.MaxIter; iter++ {
		var x, y []float64
		if fixedIsLiquid {
			x, y = z, w
		} else {
			x, y = w, z
		}
		vl, err := volume.Solve(m, p, T, x, eos.PhaseLiquid, volume.Options{})
		if err != nil {
			return Result{}, &eos.SolveError{Op: op, Iter: iter, Err: err, Detail: "liquid volume"}
		}
		vv, err := volume.Solve(m, p, T, y, eos.PhaseVapor, volume.Options{})
		if err != nil {
			return Result{}, &eos.SolveError{Op: op, Iter: iter, Err: err, Detail: "vapor volume"}
		}
		phiL := eos.LnPhi(m, eos.State{T: T, V: vl, N: x})
		phiV := eos.LnPhi(m, eos.State{T: T, V: vv, N: y})

		next := make([]float64, len(z))
		sum := 0.0
		for i := range z {
			k := math.Exp(phiL[i] - phiV[i])
			if fixedIsLiquid {
				next[i] = k * z[i]
			} else {
				next[i] = z[i] / k
			}
			sum += next[i]
		}
		if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
			return Result{}, &eos.SolveError{Op: op, Iter: iter, Err: eos.ErrInfeasible, Detail: "incipient phase left the simplex"}
		}
		for i := range next {
			next[i] /= sum
		}

		drift := eos.MaxDiff(next, w)
		w = next
		if fixedIsLiquid {
			p *= sum
		} else {
			p /= sum
		}
		if p <= 0 || math.IsInf(p, 0) {
			return Result{}, &eos.SolveError{Op: op, Iter: iter, Err: eos.ErrInfeasible, Detail: "pressure update diverged"}
		}

		if math.Abs(sum-1) < opt.Tol && drift < opt.Tol {
			res := Result{P: p, Vliq: vl, Vvap: vv, Iterations: iter}
			if fixedIsLiquid {
				res.X, res.Y = z, w
			} else {
				res.X, res.Y = w, z
			}
			return res, nil
		}
	}
	return Result{}, &eos.SolveError{Op: op, Iter: opt.MaxIter, Err: eos.ErrNotConverged}
}

func incipientSeed(m eos.Model, T float64, z []float64, opt Options, op string) (float64, []float64, error) {
	var p float64
	var w []float64
	if opt.Guess != nil {
		p = opt.Guess.P
		if opt.Guess.Comp != nil {
			var err error
			w, err = eos.Normalize(opt.Guess.Comp)
			if err != nil {
				return 0, nil, &eos.SolveError{Op: op, Err: err, Detail: "composition guess"}
			}
		}
	}
	if p <= 0 {
		var err error
		p, err = wilsonBlend(opt.Provider, m, T, z)
		if err != nil {
			return 0, nil, &eos.SolveError{Op: op, Err: err, Detail: "no pressure seed"}
		}
	}
	if w == nil {
		k, err := opt.Provider.WilsonK(m, p, T)
		if err != nil {
			return 0, nil, &eos.SolveError{Op: op, Err: err, Detail: "no composition seed"}
		}
		w = make([]float64, len(z))
		sum := 0.0
		for i := range z {
			if op == "bubble" {
				w[i] = k[i] * z[i]
			} else {
				w[i] = z[i] / k[i]
			}
			sum += w[i]
		}
		for i := range w {
			w[i] /= sum
		}
	}
	return p, w, nil
}
