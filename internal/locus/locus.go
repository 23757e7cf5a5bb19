// Package locus walks a continuation parameter along a solution branch,
// reseeding each solve from the previous converged state. It builds the
// critical and three-phase curves whose individual points come from
// internal/critical and internal/equilibrium.
package locus

import (
	"github.com/jmaravall/phaseq/internal/eos"
)

// StepFunc solves the underlying problem at one parameter value. seed
// is the previous converged state, linearly extrapolated when two are
// available, or nil on the first call.
type StepFunc func(at float64, seed []float64) ([]float64, error)

// Point is one converged continuation step.
type Point struct {
	At    float64
	State []float64
}

// Failure records a parameter value the solver could not converge at.
type Failure struct {
	At  float64
	Err error
}

// Curve is the outcome of a trace. Truncated is set when the walk
// stopped early because MaxFailures consecutive steps failed, the
// usual signature of a branch ending (a locus running into a critical
// endpoint rather than the requested parameter bound).
type Curve struct {
	Points    []Point
	Failures  []Failure
	Truncated bool
}

// Options tune the continuation walk.
type Options struct {
	// MaxFailures is the number of consecutive failed steps after
	// which the trace stops. Zero means 2.
	MaxFailures int

	// NoExtrapolate seeds each step with the last converged state
	// as-is instead of the linear extrapolation of the last two.
	NoExtrapolate bool
}

func (o Options) withDefaults() Options {
	if o.MaxFailures <= 0 {
		o.MaxFailures = 2
	}
	return o
}

// Trace walks the parameter from from to to in steps equal increments
// (steps+1 solves), seeding every call with the previous converged
// state. Failed points are recorded and skipped; the error is non-nil
// only when not a single point converged.
func Trace(from, to float64, steps int, fn StepFunc, opt Options) (Curve, error) {
	opt = opt.withDefaults()
	var c Curve
	if steps < 1 {
		return c, &eos.SolveError{Op: "locus", Err: eos.ErrOutOfDomain, Detail: "need at least one step"}
	}
	h := (to - from) / float64(steps)
	streak := 0
	for i := 0; i <= steps; i++ {
		at := from + h*float64(i)
		state, err := fn(at, seedFrom(c.Points, opt))
		if err != nil {
			c.Failures = append(c.Failures, Failure{At: at, Err: err})
			streak++
			if streak >= opt.MaxFailures {
				c.Truncated = true
				break
			}
			continue
		}
		streak = 0
		c.Points = append(c.Points, Point{At: at, State: state})
	}
	if len(c.Points) == 0 {
		return c, &eos.SolveError{Op: "locus", Err: c.Failures[0].Err, Detail: "no point converged"}
	}
	return c, nil
}

func seedFrom(pts []Point, opt Options) []float64 {
	n := len(pts)
	if n == 0 {
		return nil
	}
	last := pts[n-1].State
	if opt.NoExtrapolate || n == 1 {
		return append([]float64(nil), last...)
	}
	prev := pts[n-2].State
	out := make([]float64, len(last))
	for i := range out {
		out[i] = 2*last[i] - prev[i]
	}
	return out
}
