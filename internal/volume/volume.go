// Package volume inverts the pressure equation: given (p, T, n) and a
// phase hint it finds a volume root of P(V) = p. Roots are bracketed
// between the model co-volume and an ideal-gas-scaled upper bound,
// refined by safeguarded Newton on ln V. When the phase is unknown the
// liquid and vapor brackets are solved in an explicit fork-join and
// discriminated by residual Gibbs energy.
package volume

import (
	"math"
	"sync"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/rootfind"
)

// gridPoints is the isotherm scan resolution used to bracket roots.
// The scan is logarithmic in volume, so 256 points resolve the liquid
// and vapor branches across ten decades.
const gridPoints = 256

// Options control tolerance, budget and the fork-join toggle for the
// unknown-phase path. The zero value is ready to use.
type Options struct {
	Tol     float64
	MaxIter int

	// Threaded runs the two brackets of an unknown-phase solve
	// concurrently. Results are identical either way; the toggle
	// exists so that invariant stays testable.
	Threaded bool
}

func (o Options) rootOptions() rootfind.Options {
	return rootfind.Options{Tol: o.Tol, MaxIter: o.MaxIter}
}

// Solve finds the volume at which the model's pressure equals p for
// mole numbers n at temperature T. With a liquid or vapor hint the
// matching branch root is returned; with [eos.PhaseUnknown] both
// branches are solved and the lower-Gibbs root wins. The caller's n
// slice is never mutated.
func Solve(m eos.Model, p, T float64, n []float64, phase eos.Phase, opt Options) (float64, error) {
	roots, err := brackets(m, p, T, n)
	if err != nil {
		return 0, err
	}

	switch phase {
	case eos.PhaseLiquid:
		return refine(m, p, T, n, roots[0], opt)
	case eos.PhaseVapor:
		return refine(m, p, T, n, roots[len(roots)-1], opt)
	}

	if len(roots) == 1 {
		return refine(m, p, T, n, roots[0], opt)
	}
	return lowerGibbs(m, p, T, n, roots[0], roots[len(roots)-1], opt)
}

// Roots returns every volume root of the isotherm at p in ascending
// order. Callers building stability analyses want all of them, not
// just the stable one. A bracket that fails to refine is dropped; the
// call errors only when no bracket converges.
func Roots(m eos.Model, p, T float64, n []float64, opt Options) ([]float64, error) {
	ivs, err := brackets(m, p, T, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(ivs))
	var firstErr error
	for _, iv := range ivs {
		v, err := refine(m, p, T, n, iv, opt)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, firstErr
	}
	return out, nil
}

type interval struct{ lo, hi float64 }

// brackets scans the isotherm on a log grid from just above the
// co-volume to well past the ideal-gas volume and returns every
// sign-change interval of P(V) - p.
func brackets(m eos.Model, p, T float64, n []float64) ([]interval, error) {
	if p <= 0 || T <= 0 {
		return nil, &eos.SolveError{Op: "volume", Err: eos.ErrOutOfDomain, Detail: "non-positive pressure or temperature"}
	}
	tot := 0.0
	for _, ni := range n {
		if ni < 0 {
			return nil, &eos.SolveError{Op: "volume", Err: eos.ErrOutOfDomain, Detail: "negative mole number"}
		}
		tot += ni
	}
	if tot <= 0 {
		return nil, &eos.SolveError{Op: "volume", Err: eos.ErrOutOfDomain, Detail: "empty composition"}
	}

	b := m.CoVolume(n)
	ideal := tot * eos.GasConstant * T / p
	lo := b * (1 + 1e-6)
	if lo <= 0 {
		// Models without a repulsive core still need a positive lower
		// bound for the log grid.
		lo = 1e-9 * ideal
	}
	hi := b + 20*ideal

	f := func(v float64) float64 {
		return eos.Pressure(m, eos.State{T: T, V: v, N: n}) - p
	}

	step := math.Pow(hi/lo, 1.0/float64(gridPoints-1))
	var ivs []interval
	vPrev, fPrev := lo, f(lo)
	v := lo
	for i := 1; i < gridPoints; i++ {
		v *= step
		fv := f(v)
		if fPrev == 0 || fPrev*fv < 0 {
			ivs = append(ivs, interval{vPrev, v})
		}
		vPrev, fPrev = v, fv
	}
	if len(ivs) == 0 {
		return nil, &eos.SolveError{Op: "volume", Err: eos.ErrOutOfDomain, Detail: "no isotherm crossing in bracket"}
	}
	return ivs, nil
}

// refine solves in x = ln V, which keeps iterates strictly positive
// and puts the liquid and vapor branches on comparable step scales.
func refine(m eos.Model, p, T float64, n []float64, iv interval, opt Options) (float64, error) {
	f := func(x float64) float64 {
		return eos.Pressure(m, eos.State{T: T, V: math.Exp(x), N: n}) - p
	}
	df := func(x float64) float64 {
		v := math.Exp(x)
		return v * eos.DPressureDV(m, eos.State{T: T, V: v, N: n})
	}
	x, iters, err := rootfind.Scalar(f, df, math.Log(iv.lo), math.Log(iv.hi), opt.rootOptions())
	if err != nil {
		return 0, &eos.SolveError{Op: "volume", Iter: iters, Err: err}
	}
	return math.Exp(x), nil
}

// lowerGibbs refines the outermost brackets as an explicit fork-join
// and keeps the globally stable root. Both branches write into their
// own slot and the reduction happens in slot order after the join, so
// the threaded and serial paths are bitwise identical.
func lowerGibbs(m eos.Model, p, T float64, n []float64, liq, vap interval, opt Options) (float64, error) {
	type slot struct {
		v   float64
		err error
	}
	var slots [2]slot
	run := func(idx int, iv interval) {
		slots[idx].v, slots[idx].err = refine(m, p, T, n, iv, opt)
	}

	if opt.Threaded {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); run(0, liq) }()
		go func() { defer wg.Done(); run(1, vap) }()
		wg.Wait()
	} else {
		run(0, liq)
		run(1, vap)
	}

	switch {
	case slots[0].err != nil && slots[1].err != nil:
		return 0, slots[0].err
	case slots[0].err != nil:
		return slots[1].v, nil
	case slots[1].err != nil:
		return slots[0].v, nil
	}

	gl := eos.ReducedGibbs(m, eos.State{T: T, V: slots[0].v, N: n})
	gv := eos.ReducedGibbs(m, eos.State{T: T, V: slots[1].v, N: n})
	if gv < gl {
		return slots[1].v, nil
	}
	return slots[0].v, nil
}
