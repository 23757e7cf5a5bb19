package locus

import (
	"math"

	"github.com/jmaravall/phaseq/internal/critical"
	"github.com/jmaravall/phaseq/internal/eos"
)

// UCSTCurve is a liquid-liquid critical line traced against pressure.
type UCSTCurve struct {
	Points    []critical.MixPoint
	Failures  []Failure
	Truncated bool
}

// UCSTOptions configure the trace. Seed starts the first point and is
// required; subsequent points reseed from the branch itself.
type UCSTOptions struct {
	Seed     critical.BinarySeed
	Critical critical.Options
	Trace    Options
}

// UCST traces the upper-critical-solution branch of a binary mixture
// across the pressure interval [from, to]: one fixed-pressure critical
// solve per step, continued in (T, ln v, z1).
func UCST(m eos.Model, from, to float64, steps int, opt UCSTOptions) (UCSTCurve, error) {
	if opt.Seed.T <= 0 || opt.Seed.V <= 0 {
		return UCSTCurve{}, &eos.SolveError{Op: "locus", Err: eos.ErrOutOfDomain, Detail: "missing seed"}
	}

	var out UCSTCurve
	curve, err := Trace(from, to, steps, func(p float64, seed []float64) ([]float64, error) {
		s := opt.Seed
		if seed != nil {
			s = critical.BinarySeed{T: seed[0], V: math.Exp(seed[1]), Z1: seed[2]}
		}
		pt, err := critical.SolveBinaryAtP(m, p, s, opt.Critical)
		if err != nil {
			return nil, err
		}
		out.Points = append(out.Points, pt)
		return []float64{pt.T, math.Log(pt.V), pt.Z[0]}, nil
	}, opt.Trace)
	out.Failures = curve.Failures
	out.Truncated = curve.Truncated
	return out, err
}
