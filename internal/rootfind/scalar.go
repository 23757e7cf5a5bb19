package rootfind

import (
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
)

// Options control tolerance and budget for both kernels. Zero values
// select the defaults.
type Options struct {
	Tol     float64
	MaxIter int
}

func (o Options) withDefaults() Options {
	if o.Tol <= 0 {
		o.Tol = 1e-10
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 100
	}
	return o
}

// Scalar finds a root of f inside [lo, hi]. The bracket must show a
// sign change; f is assumed continuous on it. When df is non-nil the
// iteration takes Newton steps and falls back to bisection whenever a
// step would leave the bracket or the derivative degenerates; with a
// nil df it bisects throughout. The bracket shrinks around the iterate
// at every step, so the returned root is always the one inside the
// original interval.
func Scalar(f func(float64) float64, df func(float64) float64, lo, hi float64, opt Options) (float64, int, error) {
	opt = opt.withDefaults()
	if lo > hi {
		lo, hi = hi, lo
	}
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, 0, nil
	}
	if fhi == 0 {
		return hi, 0, nil
	}
	if flo*fhi > 0 {
		return 0, 0, eos.ErrOutOfDomain
	}

	x := 0.5 * (lo + hi)
	for iter := 1; iter <= opt.MaxIter; iter++ {
		fx := f(x)
		if fx == 0 || hi-lo < opt.Tol*math.Max(1, math.Abs(x)) {
			return x, iter, nil
		}
		if flo*fx < 0 {
			hi = x
		} else {
			lo, flo = x, fx
		}

		next := math.NaN()
		if df != nil {
			if d := df(x); d != 0 && !math.IsNaN(d) && !math.IsInf(d, 0) {
				next = x - fx/d
			}
		}
		if math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-x) < opt.Tol*math.Max(1, math.Abs(x)) {
			return next, iter, nil
		}
		x = next
	}
	return x, opt.MaxIter, eos.ErrNotConverged
}
