// Package equilibrium locates mixture phase boundaries at fixed
// temperature: bubble and dew pressures, azeotropes, and two- and
// three-phase liquid splits. All solvers borrow the model read-only,
// take plain composition vectors, and lean on internal/volume and
// internal/rootfind for the numerical kernels.
package equilibrium
