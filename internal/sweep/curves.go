package sweep

import (
	"context"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/equilibrium"
	"github.com/jmaravall/phaseq/internal/saturation"
)

// SatPoint is one converged vapor-pressure point.
type SatPoint struct {
	T float64
	saturation.Result
}

// SatCurve is a pure-component saturation curve over a temperature
// grid. Points holds the converged points in grid order; grid values
// whose solve failed appear in Failures instead.
type SatCurve struct {
	Points   []SatPoint
	Failures []Failure
}

// SaturationOptions bundle the sweep controls with the per-point
// solver settings.
type SaturationOptions struct {
	Sweep      Options
	Saturation saturation.Options
}

// SaturationCurve computes the vapor pressure of a pure model on a
// temperature grid from from to to in steps increments. Grid values
// at or above the critical temperature fail their solve and are
// recorded as gaps; the error is non-nil only when the context is
// canceled or no point at all converged.
func SaturationCurve(ctx context.Context, m eos.Model, from, to float64, steps int, opt SaturationOptions) (SatCurve, error) {
	if err := checkSteps("sweep", steps); err != nil {
		return SatCurve{}, err
	}
	at := grid(from, to, steps)
	res := make([]saturation.Result, len(at))

	var errs []error
	var err error
	if opt.Sweep.Seeded {
		errs, err = runSeeded(ctx, at, opt.Sweep, func(i, prev int) error {
			sopt := opt.Saturation
			if prev >= 0 {
				r := res[prev]
				sopt.Guess = &saturation.Guess{P: r.P, Vliq: r.Vliq, Vvap: r.Vvap}
			}
			var e error
			res[i], e = saturation.Solve(m, at[i], sopt)
			opt.Sweep.notify(i, res[i].P, e)
			return e
		})
	} else {
		errs, err = run(ctx, at, opt.Sweep, func(i int) error {
			var e error
			res[i], e = saturation.Solve(m, at[i], opt.Saturation)
			opt.Sweep.notify(i, res[i].P, e)
			return e
		})
	}
	if err != nil {
		return SatCurve{}, err
	}

	var c SatCurve
	for i := range at {
		if errs[i] != nil {
			c.Failures = append(c.Failures, Failure{At: at[i], Err: errs[i]})
			continue
		}
		c.Points = append(c.Points, SatPoint{T: at[i], Result: res[i]})
	}
	if len(c.Points) == 0 {
		return c, &eos.SolveError{Op: "sweep", Err: c.Failures[0].Err, Detail: "no point converged"}
	}
	return c, nil
}

// EnvelopePoint is one bubble point of an isothermal P-x-y envelope.
// X1 is the liquid mole fraction of the first component.
type EnvelopePoint struct {
	X1 float64
	equilibrium.Result
}

// Envelope is the bubble branch of an isothermal binary phase
// envelope over a composition grid.
type Envelope struct {
	Points   []EnvelopePoint
	Failures []Failure
}

// BubbleOptions bundle the sweep controls with the per-point solver
// settings.
type BubbleOptions struct {
	Sweep       Options
	Equilibrium equilibrium.Options
}

// BubbleCurve computes bubble points of a binary model on a liquid
// composition grid, x1 from from to to in steps increments. In seeded
// mode each solve starts from the previous point's pressure and vapor
// composition, which carries the iteration through the narrow band
// near a critical composition where fresh Wilson seeds fail.
func BubbleCurve(ctx context.Context, m eos.Model, T, from, to float64, steps int, opt BubbleOptions) (Envelope, error) {
	if err := checkSteps("sweep", steps); err != nil {
		return Envelope{}, err
	}
	if len(m.Names()) != 2 {
		return Envelope{}, &eos.SolveError{Op: "sweep", Err: eos.ErrOutOfDomain, Detail: "envelope needs a binary model"}
	}
	if from <= 0 || to <= 0 || from >= 1 || to >= 1 {
		return Envelope{}, &eos.SolveError{Op: "sweep", Err: eos.ErrOutOfDomain, Detail: "composition grid must stay inside (0, 1)"}
	}
	at := grid(from, to, steps)
	res := make([]equilibrium.Result, len(at))

	var errs []error
	var err error
	if opt.Sweep.Seeded {
		errs, err = runSeeded(ctx, at, opt.Sweep, func(i, prev int) error {
			eopt := opt.Equilibrium
			if prev >= 0 {
				r := res[prev]
				eopt.Guess = &equilibrium.Guess{P: r.P, Comp: r.Y}
			}
			var e error
			res[i], e = equilibrium.BubblePressure(m, T, []float64{at[i], 1 - at[i]}, eopt)
			opt.Sweep.notify(i, res[i].P, e)
			return e
		})
	} else {
		errs, err = run(ctx, at, opt.Sweep, func(i int) error {
			var e error
			res[i], e = equilibrium.BubblePressure(m, T, []float64{at[i], 1 - at[i]}, opt.Equilibrium)
			opt.Sweep.notify(i, res[i].P, e)
			return e
		})
	}
	if err != nil {
		return Envelope{}, err
	}

	var c Envelope
	for i := range at {
		if errs[i] != nil {
			c.Failures = append(c.Failures, Failure{At: at[i], Err: errs[i]})
			continue
		}
		c.Points = append(c.Points, EnvelopePoint{X1: at[i], Result: res[i]})
	}
	if len(c.Points) == 0 {
		return c, &eos.SolveError{Op: "sweep", Err: c.Failures[0].Err, Detail: "no point converged"}
	}
	return c, nil
}
