package models

import (
	"fmt"
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
)

// Cubic is the generalized two-parameter cubic equation of state
//
//	P = nRT/(V-B) - A(T)/((V+d1*B)(V+d2*B))
//
// with van der Waals one-fluid mixing, A = sum_ij ni*nj*aij(T) and
// B = sum_i ni*bi. The family constants d1, d2, OmegaA, OmegaB and the
// alpha-function slope select Peng-Robinson or Soave-Redlich-Kwong.
type Cubic struct {
	family string
	names  []string

	tc, pc, omega []float64

	delta1, delta2 float64
	ac, b, kappa   []float64

	kij [][]float64
}

// NewPengRobinson builds a Peng-Robinson model from a parameter set
// carrying "tc", "pc" and "omega" scalar tables and an optional "kij"
// pair table.
func NewPengRobinson(ps *eos.ParamSet) (*Cubic, error) {
	return newCubic(ps, "pr", 1+math.Sqrt2, 1-math.Sqrt2, 0.45724, 0.07780,
		func(w float64) float64 { return 0.37464 + 1.54226*w - 0.26992*w*w })
}

// NewSRK builds a Soave-Redlich-Kwong model from the same tables.
func NewSRK(ps *eos.ParamSet) (*Cubic, error) {
	return newCubic(ps, "srk", 1, 0, 0.42748, 0.08664,
		func(w float64) float64 { return 0.480 + 1.574*w - 0.176*w*w })
}

func newCubic(ps *eos.ParamSet, family string, d1, d2, omegaA, omegaB float64, kappa func(float64) float64) (*Cubic, error) {
	tc, pc, omega, kij, err := unpack(ps)
	if err != nil {
		return nil, fmt.Errorf("models: %s: %w", family, err)
	}
	nc := len(tc)
	c := &Cubic{
		family: family,
		names:  ps.Components(),
		tc:     tc, pc: pc, omega: omega,
		delta1: d1, delta2: d2,
		ac:    make([]float64, nc),
		b:     make([]float64, nc),
		kappa: make([]float64, nc),
		kij:   kij,
	}
	for i := 0; i < nc; i++ {
		rtc := eos.GasConstant * tc[i]
		c.ac[i] = omegaA * rtc * rtc / pc[i]
		c.b[i] = omegaB * rtc / pc[i]
		c.kappa[i] = kappa(omega[i])
	}
	return c, nil
}

func unpack(ps *eos.ParamSet) (tc, pc, omega []float64, kij [][]float64, err error) {
	for _, req := range []struct {
		name string
		dst  *[]float64
	}{{"tc", &tc}, {"pc", &pc}, {"omega", &omega}} {
		tab, ok := ps.Scalar(req.name)
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("parameter set lacks %q table", req.name)
		}
		*req.dst = tab.Values()
	}
	for i, t := range tc {
		if t <= 0 || pc[i] <= 0 {
			return nil, nil, nil, nil, fmt.Errorf("component %d has non-positive critical constants", i)
		}
	}
	nc := len(tc)
	kij = make([][]float64, nc)
	for i := range kij {
		kij[i] = make([]float64, nc)
	}
	if tab, ok := ps.Pair("kij"); ok {
		for i := 0; i < nc; i++ {
			for j := 0; j < nc; j++ {
				kij[i][j] = tab.At(i, j)
			}
		}
	}
	return tc, pc, omega, kij, nil
}

func (c *Cubic) Names() []string { return append([]string(nil), c.names...) }

func (c *Cubic) Family() string { return c.family }

func (c *Cubic) CoVolume(n []float64) float64 {
	b := 0.0
	for i, ni := range n {
		b += ni * c.b[i]
	}
	return b
}

// mixAB returns the mixture attraction A(T) and co-volume B for mole
// numbers n.
func (c *Cubic) mixAB(T float64, n []float64) (float64, float64) {
	nc := len(c.b)
	ai := make([]float64, nc)
	for i := 0; i < nc; i++ {
		sq := 1 + c.kappa[i]*(1-math.Sqrt(T/c.tc[i]))
		ai[i] = c.ac[i] * sq * sq
	}
	a, b := 0.0, 0.0
	for i := 0; i < nc; i++ {
		b += n[i] * c.b[i]
		for j := 0; j < nc; j++ {
			a += n[i] * n[j] * math.Sqrt(ai[i]*ai[j]) * (1 - c.kij[i][j])
		}
	}
	return a, b
}

func (c *Cubic) Residual(s eos.State) float64 {
	a, b := c.mixAB(s.T, s.N)
	n := s.Moles()
	rt := eos.GasConstant * s.T
	rep := -n * math.Log(1-b/s.V)
	att := a / (rt * b * (c.delta1 - c.delta2)) * math.Log((s.V+c.delta2*b)/(s.V+c.delta1*b))
	return rep + att
}

// Pressure is the analytic isotherm; it keeps the generic
// finite-difference path out of every inner solver loop.
func (c *Cubic) Pressure(s eos.State) float64 {
	a, b := c.mixAB(s.T, s.N)
	n := s.Moles()
	return n*eos.GasConstant*s.T/(s.V-b) - a/((s.V+c.delta1*b)*(s.V+c.delta2*b))
}

func (c *Cubic) CriticalTemps() []float64     { return append([]float64(nil), c.tc...) }
func (c *Cubic) CriticalPressures() []float64 { return append([]float64(nil), c.pc...) }
func (c *Cubic) AcentricFactors() []float64   { return append([]float64(nil), c.omega...) }

func (c *Cubic) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for i := range c.kij {
		for j := i + 1; j < len(c.kij); j++ {
			out[fmt.Sprintf("kij.%d.%d", i, j)] = c.kij[i][j]
		}
	}
	return out
}

func (c *Cubic) SetParam(name string, value float64) error {
	var i, j int
	if _, err := fmt.Sscanf(name, "kij.%d.%d", &i, &j); err != nil {
		return fmt.Errorf("models: unknown parameter %q", name)
	}
	if i < 0 || j < 0 || i >= len(c.kij) || j >= len(c.kij) || i == j {
		return fmt.Errorf("models: parameter %q out of range", name)
	}
	c.kij[i][j] = value
	c.kij[j][i] = value
	return nil
}
