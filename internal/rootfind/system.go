package rootfind

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaravall/phaseq/internal/eos"
)

// ResidualFunc evaluates a residual vector at x. Returning an error
// aborts the iteration immediately; solvers use that to surface inner
// failures (a volume solve with no root, a composition leaving the
// simplex) instead of stepping through them.
type ResidualFunc func(x []float64) ([]float64, error)

// SystemOptions extend Options with the step controls of the damped
// Newton iteration.
type SystemOptions struct {
	Options

	// MaxStep caps the infinity norm of a Newton step. Zero means 0.5,
	// which is sized for the log-volume and log-pressure unknowns used
	// throughout phaseq.
	MaxStep float64

	// JacStep is the relative finite-difference step for the Jacobian.
	JacStep float64
}

func (o SystemOptions) withDefaults() SystemOptions {
	o.Options = o.Options.withDefaults()
	if o.MaxStep <= 0 {
		o.MaxStep = 0.5
	}
	if o.JacStep <= 0 {
		o.JacStep = 1e-7
	}
	return o
}

// System drives a damped Newton iteration on residual(x) = 0 starting
// from x0. The Jacobian comes from forward differences, each step is
// capped at MaxStep in the infinity norm and halved until the residual
// norm stops growing, and a Jacobian the LU factorization rejects ends
// the iteration with [eos.ErrDegenerate]. x0 is not mutated.
func System(residual ResidualFunc, x0 []float64, opt SystemOptions) ([]float64, int, error) {
	opt = opt.withDefaults()
	n := len(x0)
	x := append([]float64(nil), x0...)

	r, err := residual(x)
	if err != nil {
		return x, 0, err
	}
	rn := norm2(r)

	jac := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	step := mat.NewVecDense(n, nil)
	var lu mat.LU

	for iter := 1; iter <= opt.MaxIter; iter++ {
		if rn < opt.Tol {
			return x, iter - 1, nil
		}

		if err := jacobian(residual, x, r, opt.JacStep, jac); err != nil {
			return x, iter, err
		}
		lu.Factorize(jac)
		for i := 0; i < n; i++ {
			rhs.SetVec(i, -r[i])
		}
		if err := lu.SolveVecTo(step, false, rhs); err != nil {
			// An ill-conditioned (but still factorizable) Jacobian is
			// expected near critical points; only exact singularity is
			// beyond repair.
			if _, cond := err.(mat.Condition); !cond {
				return x, iter, eos.ErrDegenerate
			}
		}

		scale := 1.0
		if s := normInf(step); s > opt.MaxStep {
			scale = opt.MaxStep / s
		}

		// Backtracking line search: halve until the residual norm
		// stops increasing or the step becomes negligible.
		improved := false
		for damp := scale; damp > scale/64; damp /= 2 {
			trial := make([]float64, n)
			for i := range trial {
				trial[i] = x[i] + damp*step.AtVec(i)
			}
			tr, terr := residual(trial)
			if terr != nil {
				continue
			}
			tn := norm2(tr)
			if math.IsNaN(tn) || math.IsInf(tn, 0) {
				continue
			}
			if tn < rn || damp <= scale/32 {
				x, r, rn = trial, tr, tn
				improved = true
				break
			}
		}
		if !improved {
			return x, iter, &eos.SolveError{Op: "newton", Iter: iter, Detail: "line search stalled", Err: eos.ErrNotConverged}
		}
	}
	if rn < opt.Tol {
		return x, opt.MaxIter, nil
	}
	return x, opt.MaxIter, eos.ErrNotConverged
}

func jacobian(residual ResidualFunc, x, r0 []float64, rel float64, dst *mat.Dense) error {
	n := len(x)
	xp := make([]float64, n)
	for j := 0; j < n; j++ {
		h := rel * math.Max(math.Abs(x[j]), 1)
		copy(xp, x)
		xp[j] += h
		rj, err := residual(xp)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			dst.Set(i, j, (rj[i]-r0[i])/h)
		}
	}
	return nil
}

func norm2(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func normInf(v *mat.VecDense) float64 {
	s := 0.0
	for i := 0; i < v.Len(); i++ {
		if a := math.Abs(v.AtVec(i)); a > s {
			s = a
		}
	}
	return s
}
