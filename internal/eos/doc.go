// Package eos defines the evaluator contract and numerical primitives
// shared by every phase-equilibrium solver in phaseq.
//
// The central abstraction is [Model]: an equation of state exposed as a
// reduced residual Helmholtz energy F(n, V, T) = A_res/RT together with a
// component ordering and a packed-volume lower bound. Everything the
// solvers need (pressure, fugacity coefficients, stability matrices) is
// derived from F by the accessor functions in this package:
//
//   - [Pressure], [DPressureDV], [D2PressureDV2]: the P(V) isotherm
//   - [LnPhi], [ResidualMu]: fugacity coefficients and residual potentials
//   - [ReducedGibbs]: root discrimination between liquid and vapor branches
//   - [ResidualN2], [ResidualDir3]: composition curvature for critical-point work
//
// Models may shortcut the generic finite-difference paths by implementing
// capability interfaces such as [PressureProvider]; callers discover these
// with type assertions and never require them.
//
// # Conventions
//
// SI units throughout: kelvin, pascal, cubic metre, mole. Volumes are
// total volumes; pass mole fractions with V as molar volume for the
// per-mole picture. Solver functions never mutate caller-owned
// composition slices.
//
// # Thread Safety
//
// Models are read-only after construction and safe for concurrent use.
// All accessor functions are pure.
package eos
