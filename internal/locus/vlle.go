package locus

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/equilibrium"
)

// VLLEPoint is one converged three-phase state on the locus.
type VLLEPoint struct {
	T float64
	equilibrium.VLLEResult
}

// VLLECurve is a three-phase line traced against temperature. A
// truncated curve ended where the two liquids merged: the upper
// critical end point of the three-phase line.
type VLLECurve struct {
	Points    []VLLEPoint
	Failures  []Failure
	Truncated bool
}

// VLLELocusOptions configure the trace.
type VLLELocusOptions struct {
	Equilibrium equilibrium.VLLEOptions
	Trace       Options
}

// VLLELocus traces the three-phase pressure line of a binary feed z
// across the temperature interval [from, to], reseeding each solve
// with the previous converged compositions and pressure.
func VLLELocus(m eos.Model, z []float64, from, to float64, steps int, opt VLLELocusOptions) (VLLECurve, error) {
	var out VLLECurve
	curve, err := Trace(from, to, steps, func(T float64, seed []float64) ([]float64, error) {
		eopt := opt.Equilibrium
		if seed != nil {
			eopt.Guess = &equilibrium.VLLEGuess{
				P:  math.Exp(seed[0]),
				X1: []float64{seed[1], 1 - seed[1]},
				X2: []float64{seed[2], 1 - seed[2]},
				Y:  []float64{seed[3], 1 - seed[3]},
			}
		}
		res, err := equilibrium.VLLE(m, T, z, eopt)
		if err != nil {
			return nil, err
		}
		out.Points = append(out.Points, VLLEPoint{T: T, VLLEResult: res})
		return []float64{math.Log(res.P), res.X1[0], res.X2[0], res.Y[0]}, nil
	}, opt.Trace)
	out.Failures = curve.Failures
	out.Truncated = curve.Truncated
	return out, err
}
