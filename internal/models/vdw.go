package models

import (
	"fmt"
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
)

// VDW is the van der Waals fluid, P = nRT/(V-B) - A/V**2. Its pure
// critical point has the closed form Tc = 8a/(27Rb), vc = 3b, which
// makes it the reference model for the critical-point tests.
type VDW struct {
	names         []string
	tc, pc, omega []float64
	a, b          []float64
	kij           [][]float64
}

// NewVDW builds a van der Waals model with a = 27R**2*Tc**2/(64*Pc)
// and b = R*Tc/(8*Pc) per component; the tabulated critical point is
// reproduced exactly by construction.
func NewVDW(ps *eos.ParamSet) (*VDW, error) {
	tc, pc, omega, kij, err := unpack(ps)
	if err != nil {
		return nil, fmt.Errorf("models: vdw: %w", err)
	}
	nc := len(tc)
	m := &VDW{
		names: ps.Components(),
		tc:    tc, pc: pc, omega: omega,
		a:   make([]float64, nc),
		b:   make([]float64, nc),
		kij: kij,
	}
	for i := 0; i < nc; i++ {
		rtc := eos.GasConstant * tc[i]
		m.a[i] = 27 * rtc * rtc / (64 * pc[i])
		m.b[i] = rtc / (8 * pc[i])
	}
	return m, nil
}

func (m *VDW) Names() []string { return append([]string(nil), m.names...) }

func (m *VDW) CoVolume(n []float64) float64 {
	b := 0.0
	for i, ni := range n {
		b += ni * m.b[i]
	}
	return b
}

func (m *VDW) mixAB(n []float64) (float64, float64) {
	a, b := 0.0, 0.0
	for i := range n {
		b += n[i] * m.b[i]
		for j := range n {
			a += n[i] * n[j] * math.Sqrt(m.a[i]*m.a[j]) * (1 - m.kij[i][j])
		}
	}
	return a, b
}

func (m *VDW) Residual(s eos.State) float64 {
	a, b := m.mixAB(s.N)
	n := s.Moles()
	return -n*math.Log(1-b/s.V) - a/(eos.GasConstant*s.T*s.V)
}

func (m *VDW) Pressure(s eos.State) float64 {
	a, b := m.mixAB(s.N)
	n := s.Moles()
	return n*eos.GasConstant*s.T/(s.V-b) - a/(s.V*s.V)
}

func (m *VDW) CriticalTemps() []float64     { return append([]float64(nil), m.tc...) }
func (m *VDW) CriticalPressures() []float64 { return append([]float64(nil), m.pc...) }
func (m *VDW) AcentricFactors() []float64   { return append([]float64(nil), m.omega...) }

func (m *VDW) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for i := range m.kij {
		for j := i + 1; j < len(m.kij); j++ {
			out[fmt.Sprintf("kij.%d.%d", i, j)] = m.kij[i][j]
		}
	}
	return out
}

func (m *VDW) SetParam(name string, value float64) error {
	var i, j int
	if _, err := fmt.Sscanf(name, "kij.%d.%d", &i, &j); err != nil {
		return fmt.Errorf("models: unknown parameter %q", name)
	}
	if i < 0 || j < 0 || i >= len(m.kij) || j >= len(m.kij) || i == j {
		return fmt.Errorf("models: parameter %q out of range", name)
	}
	m.kij[i][j] = value
	m.kij[j][i] = value
	return nil
}
