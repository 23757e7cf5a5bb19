// Package saturation finds the vapor pressure of a pure substance: the
// pressure and volume pair at which liquid and vapor have equal
// pressure and equal chemical potential at a fixed temperature. The
// two-equation Newton iteration runs in (ln Vl, ln Vv), which keeps
// both volumes positive and the step scales comparable across phases.
package saturation

import (
	"errors"
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/guess"
	"github.com/jmaravall/phaseq/internal/volume"
)

// separationFloor is the smallest log-volume gap treated as two
// distinct phases. Collapse below it before convergence is the
// above-critical signature.
const separationFloor = 1e-9

// tolScale lifts the stopping thresholds one decade above Tol. The
// chemical-potential residual is a central difference with a noise
// floor near 1e-10 and cannot be driven below it.
const tolScale = 10

// Result is a converged saturation point.
type Result struct {
	P          float64
	Vliq, Vvap float64
	Iterations int
}

// Guess seeds the iteration explicitly; zero fields fall back to the
// provider.
type Guess struct {
	P          float64
	Vliq, Vvap float64
}

// Options seed and bound the solve. A nil Provider means the default
// correlation provider.
type Options struct {
	Guess    *Guess
	Provider guess.Provider
	Tol      float64
	MaxIter  int
}

func (o Options) withDefaults() Options {
	o.Provider = guess.OrDefault(o.Provider)
	if o.Tol <= 0 {
		o.Tol = 1e-10
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 60
	}
	return o
}

// Solve computes the saturation point of a single-component model at
// temperature T.
func Solve(m eos.Model, T float64, opt Options) (Result, error) {
	opt = opt.withDefaults()
	if len(m.Names()) != 1 {
		return Result{}, &eos.SolveError{Op: "saturation", Err: eos.ErrOutOfDomain, Detail: "model is not pure"}
	}
	if T <= 0 {
		return Result{}, &eos.SolveError{Op: "saturation", Err: eos.ErrOutOfDomain, Detail: "non-positive temperature"}
	}

	vl, vv, err := seed(m, T, opt)
	if err != nil {
		return Result{}, err
	}

	n := []float64{1}
	rt := eos.GasConstant * T
	xl, xv := math.Log(vl), math.Log(vv)

	for iter := 1; iter <= opt.MaxIter; iter++ {
		vl, vv = math.Exp(xl), math.Exp(xv)
		sl := eos.State{T: T, V: vl, N: n}
		sv := eos.State{T: T, V: vv, N: n}

		pl, pv := eos.Pressure(m, sl), eos.Pressure(m, sv)
		// ln f = dF/dn + ln(nRT/V); the RT factor cancels between the
		// phases, leaving the ln V difference.
		r1 := (pl - pv) * vv / rt
		r2 := eos.ResidualMu(m, sl)[0] - eos.ResidualMu(m, sv)[0] + math.Log(vv/vl)

		pScale := math.Max(math.Abs(pl), math.Abs(pv))
		if pScale > 0 && math.Abs(pl-pv) < opt.Tol*pScale*tolScale && math.Abs(r2) < opt.Tol*tolScale {
			if pl <= 0 {
				return Result{}, &eos.SolveError{Op: "saturation", Iter: iter, Err: eos.ErrOutOfDomain, Detail: "negative saturation pressure"}
			}
			return Result{P: 0.5 * (pl + pv), Vliq: vl, Vvap: vv, Iterations: iter}, nil
		}

		dpl := eos.DPressureDV(m, sl)
		dpv := eos.DPressureDV(m, sv)

		// Jacobian in (ln Vl, ln Vv); d(ln f)/dV = V dP/dV / RT for a
		// pure fluid.
		j11 := vl * dpl * vv / rt
		j12 := -vv * dpv * vv / rt
		j21 := vl * vl * dpl / rt
		j22 := -vv * vv * dpv / rt

		det := j11*j22 - j12*j21
		if det == 0 || math.IsNaN(det) {
			return Result{}, &eos.SolveError{Op: "saturation", Iter: iter, Err: eos.ErrDegenerate, Detail: "singular Jacobian"}
		}
		dl := (-r1*j22 + r2*j12) / det
		dv := (-j11*r2 + j21*r1) / det

		// Step damping keeps the iterates on their own branches.
		if s := math.Max(math.Abs(dl), math.Abs(dv)); s > 0.3 {
			dl *= 0.3 / s
			dv *= 0.3 / s
		}
		xl += dl
		xv += dv

		if xv-xl < separationFloor {
			return Result{}, &eos.SolveError{Op: "saturation", Iter: iter, Err: eos.ErrDegenerate, Detail: "volume roots collapsed (at or above critical)"}
		}
	}
	return Result{}, &eos.SolveError{Op: "saturation", Iter: opt.MaxIter, Err: eos.ErrNotConverged}
}

// seed produces the starting volume pair: explicit guess first, then a
// correlation pressure refined into phase-hinted volume roots, then
// raw domain-derived bounds.
func seed(m eos.Model, T float64, opt Options) (vl, vv float64, err error) {
	if g := opt.Guess; g != nil && g.Vliq > 0 && g.Vvap > 0 {
		return g.Vliq, g.Vvap, nil
	}
	p0 := 0.0
	if g := opt.Guess; g != nil && g.P > 0 {
		p0 = g.P
	} else {
		p0, err = opt.Provider.SaturationPressure(m, T)
		if err != nil {
			// Past the tabulated critical temperature there is no
			// correlation pressure; probing at Pc lets the volume
			// solves expose the collapse as ErrDegenerate below.
			cc, ok := m.(eos.CriticalConstants)
			if !ok || !errors.Is(err, eos.ErrOutOfDomain) {
				return 0, 0, &eos.SolveError{Op: "saturation", Err: err, Detail: "no seed pressure"}
			}
			p0 = cc.CriticalPressures()[0]
		}
	}
	n := []float64{1}
	vl, errL := volume.Solve(m, p0, T, n, eos.PhaseLiquid, volume.Options{})
	vv, errV := volume.Solve(m, p0, T, n, eos.PhaseVapor, volume.Options{})
	if errL != nil || errV != nil {
		vl, vv = opt.Provider.VolumeSeeds(m, p0, T, n)
	}
	if vv <= vl {
		return 0, 0, &eos.SolveError{Op: "saturation", Err: eos.ErrDegenerate, Detail: "no volume separation at seed pressure"}
	}
	return vl, vv, nil
}
