// Package rootfind holds the two numerical kernels shared by every
// equilibrium solver: a safeguarded scalar Newton-bisection for
// bracketed single-variable problems and a damped multidimensional
// Newton iteration for coupled systems.
//
// Keeping the kernels in one place means the composed solvers (bubble
// point, azeotrope, three-phase) iterate with exactly the same
// safeguards as the primitives they build on. Failures are reported
// with the shared sentinel kinds of the eos package so callers match
// them uniformly with errors.Is.
package rootfind
