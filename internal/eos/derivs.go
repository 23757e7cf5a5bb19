package eos

import "math"

// Relative finite-difference steps, one per stencil order.
const (
	stepFirst  = 6e-6
	stepSecond = 1.2e-4
	stepThird  = 2.5e-3
)

// Pressure evaluates P(n, V, T). Models that implement
// [PressureProvider] answer directly; otherwise the thermodynamic
// identity P = nRT/V − RT·∂F/∂V is evaluated by central difference.
func Pressure(m Model, s State) float64 {
	if pp, ok := m.(PressureProvider); ok {
		return pp.Pressure(s)
	}
	h := stepFirst * s.V
	dFdV := (m.Residual(s.withV(s.V+h)) - m.Residual(s.withV(s.V-h))) / (2 * h)
	rt := GasConstant * s.T
	return rt*s.Moles()/s.V - rt*dFdV
}

func DPressureDV(m Model, s State) float64 {
	h := stepFirst * s.V
	return (Pressure(m, s.withV(s.V+h)) - Pressure(m, s.withV(s.V-h))) / (2 * h)
}

func D2PressureDV2(m Model, s State) float64 {
	h := stepSecond * s.V
	return (Pressure(m, s.withV(s.V+h)) - 2*Pressure(m, s) + Pressure(m, s.withV(s.V-h))) / (h * h)
}

// ResidualMu returns the composition gradient ∂F/∂nᵢ at constant T, V.
func ResidualMu(m Model, s State) []float64 {
	tot := s.Moles()
	out := make([]float64, len(s.N))
	for i := range s.N {
		h := stepFirst * math.Max(s.N[i], 1e-2*tot)
		fp := m.Residual(shiftN1(s, i, +h))
		fm := m.Residual(shiftN1(s, i, -h))
		out[i] = (fp - fm) / (2 * h)
	}
	return out
}

// LnPhi returns ln φᵢ = ∂F/∂nᵢ − ln Z for every component at the
// state's own pressure.
func LnPhi(m Model, s State) []float64 {
	lnZ := math.Log(Compressibility(m, s))
	mu := ResidualMu(m, s)
	for i := range mu {
		mu[i] -= lnZ
	}
	return mu
}

func Compressibility(m Model, s State) float64 {
	return Pressure(m, s) * s.V / (s.Moles() * GasConstant * s.T)
}

// ReducedGibbs returns the residual Gibbs energy per mole over RT at
// the state's own pressure. Between two volume roots of the same
// pressure the lower value marks the stable branch.
func ReducedGibbs(m Model, s State) float64 {
	z := Compressibility(m, s)
	return m.Residual(s)/s.Moles() + z - 1 - math.Log(z)
}

// ResidualN2 returns the composition Hessian ∂²F/∂nᵢ∂nⱼ at constant
// T, V. The matrix is symmetric.
func ResidualN2(m Model, s State) [][]float64 {
	nc := len(s.N)
	tot := s.Moles()
	f0 := m.Residual(s)
	out := make([][]float64, nc)
	for i := range out {
		out[i] = make([]float64, nc)
	}
	step := func(i int) float64 {
		return stepSecond * math.Max(s.N[i], 1e-2*tot)
	}
	for i := 0; i < nc; i++ {
		hi := step(i)
		fp := m.Residual(shiftN1(s, i, +hi))
		fm := m.Residual(shiftN1(s, i, -hi))
		out[i][i] = (fp - 2*f0 + fm) / (hi * hi)
		for j := i + 1; j < nc; j++ {
			hj := step(j)
			fpp := m.Residual(shiftN2(s, i, +hi, j, +hj))
			fpm := m.Residual(shiftN2(s, i, +hi, j, -hj))
			fmp := m.Residual(shiftN2(s, i, -hi, j, +hj))
			fmm := m.Residual(shiftN2(s, i, -hi, j, -hj))
			v := (fpp - fpm - fmp + fmm) / (4 * hi * hj)
			out[i][j] = v
			out[j][i] = v
		}
	}
	return out
}

// StabilityMatrix returns the scaled composition-stability matrix
// B_ij = delta_ij + sqrt(n_i n_j) d2F/dn_i dn_j at fixed T, V. Its
// smallest eigenvalue vanishes on the spinodal; the critical locators
// drive it to zero together with the matching cubic form.
func StabilityMatrix(m Model, s State) [][]float64 {
	h := ResidualN2(m, s)
	for i := range h {
		for j := range h[i] {
			h[i][j] *= math.Sqrt(s.N[i] * s.N[j])
			if i == j {
				h[i][j]++
			}
		}
	}
	return h
}

// ResidualDir3 returns the third derivative of F along the composition
// direction d, evaluated at the state by a five-point stencil.
func ResidualDir3(m Model, s State, d []float64) float64 {
	norm := 0.0
	for _, v := range d {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return 0
	}
	h := stepThird * s.Moles() / norm
	at := func(t float64) float64 {
		n := make([]float64, len(s.N))
		for i := range n {
			n[i] = s.N[i] + t*d[i]
		}
		return m.Residual(State{T: s.T, V: s.V, N: n})
	}
	return (-at(-2*h) + 2*at(-h) - 2*at(h) + at(2*h)) / (2 * h * h * h)
}

func shiftN1(s State, i int, d float64) State {
	n := make([]float64, len(s.N))
	copy(n, s.N)
	n[i] += d
	return State{T: s.T, V: s.V, N: n}
}

func shiftN2(s State, i int, di float64, j int, dj float64) State {
	n := make([]float64, len(s.N))
	copy(n, s.N)
	n[i] += di
	n[j] += dj
	return State{T: s.T, V: s.V, N: n}
}
