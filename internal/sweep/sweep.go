// Package sweep evaluates a solver over a parameter grid. Points are
// independent solves, so the default mode fans them out over a bounded
// worker group and collects results by index; the seeded mode walks
// the grid serially instead, feeding each solve the previous converged
// state, which is slower but reaches further along steep branches.
package sweep

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jmaravall/phaseq/internal/eos"
)

// Failure records a grid value whose solve did not converge. Failed
// points never abort a sweep; the caller decides whether gaps matter.
type Failure struct {
	At  float64
	Err error
}

// Options tune how a sweep runs.
type Options struct {
	// Workers bounds the parallel solves. Zero means GOMAXPROCS.
	// Ignored when Seeded is set.
	Workers int

	// Seeded walks the grid serially, seeding each solve from the
	// previous converged point.
	Seeded bool

	// OnPoint, when non-nil, is called after every solve with the
	// grid index, the primary response value (the pressure, zero on
	// failure) and the solve error. In parallel mode it is called
	// from worker goroutines.
	OnPoint func(i int, value float64, err error)
}

func (o Options) notify(i int, value float64, err error) {
	if o.OnPoint != nil {
		o.OnPoint(i, value, err)
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// grid returns steps+1 evenly spaced values from from to to.
func grid(from, to float64, steps int) []float64 {
	h := (to - from) / float64(steps)
	at := make([]float64, steps+1)
	for i := range at {
		at[i] = from + h*float64(i)
	}
	return at
}

func checkSteps(op string, steps int) error {
	if steps < 1 {
		return &eos.SolveError{Op: op, Err: eos.ErrOutOfDomain, Detail: "need at least one step"}
	}
	return nil
}

// run evaluates fn at every grid value with bounded parallelism,
// writing each outcome into its index slot so the output order is the
// grid order regardless of scheduling.
func run(ctx context.Context, at []float64, opt Options, fn func(i int) error) ([]error, error) {
	errs := make([]error, len(at))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opt.workers())
	for i := range at {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return errs, nil
}

// runSeeded is the serial variant of run; fn receives the index of the
// last converged point, or -1 before the first success.
func runSeeded(ctx context.Context, at []float64, opt Options, fn func(i, prev int) error) ([]error, error) {
	errs := make([]error, len(at))
	prev := -1
	for i := range at {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		errs[i] = fn(i, prev)
		if errs[i] == nil {
			prev = i
		}
	}
	return errs, nil
}
