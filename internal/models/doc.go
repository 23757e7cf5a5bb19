// Package models implements the equations of state shipped with
// phaseq: a generalized two-parameter cubic covering Peng-Robinson and
// Soave-Redlich-Kwong, and the van der Waals fluid whose closed-form
// critical point anchors the solver tests.
//
// Every model satisfies eos.Model and the PressureProvider,
// CriticalConstants and Tunable capabilities; models are built from an
// immutable eos.ParamSet and never mutated afterwards.
package models
