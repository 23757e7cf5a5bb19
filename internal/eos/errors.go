package eos

import (
	"errors"
	"fmt"
)

// Failure kinds shared by all solvers. Callers match these with
// errors.Is; the concrete error is usually a [SolveError] wrapping one.
var (
	// ErrOutOfDomain indicates inputs outside the solvable region
	// (no bracketing root, negative compositions, T or P beyond the
	// model's reach).
	ErrOutOfDomain = errors.New("eos: conditions outside solvable domain")

	// ErrNotConverged indicates the iteration budget ran out while the
	// residual was still above tolerance.
	ErrNotConverged = errors.New("eos: not converged within iteration budget")

	// ErrDegenerate indicates the solver collapsed onto a trivial
	// solution: coincident phases, identical compositions, or a
	// singular Jacobian that damping could not repair.
	ErrDegenerate = errors.New("eos: degenerate solution")

	// ErrInfeasible indicates the requested equilibrium does not exist
	// at the given conditions (no phase split, no azeotrope).
	ErrInfeasible = errors.New("eos: no solution at requested conditions")
)

// SolveError tags a failure with the originating operation so composed
// solvers can report which inner solve gave out.
type SolveError struct {
	Op     string
	Iter   int
	Detail string
	Err    error
}

func (e *SolveError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v after %d iterations (%s)", e.Op, e.Err, e.Iter, e.Detail)
	}
	return fmt.Sprintf("%s: %v after %d iterations", e.Op, e.Err, e.Iter)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}
