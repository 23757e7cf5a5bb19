// Package guess supplies default correlation-based seeds for the
// iterative solvers: Wilson K-values, acentric-factor saturation
// pressure estimates, liquid/vapor volume seeds and critical-point
// seeds. Every solver accepts a nil Provider and falls back to
// Defaults, so explicit seeding is always optional.
package guess

import (
	"fmt"
	"math"

	"github.com/jmaravall/phaseq/internal/eos"
)

// Provider hands out starting points. Implementations must be pure:
// the same arguments always give the same seed.
type Provider interface {
	// SaturationPressure estimates the pure-component saturation
	// pressure at T. The model must be single-component.
	SaturationPressure(m eos.Model, T float64) (float64, error)

	// WilsonK estimates K-values at p, T for every component.
	WilsonK(m eos.Model, p, T float64) ([]float64, error)

	// VolumeSeeds returns molar liquid and vapor volume starting
	// points for mole numbers n at p, T.
	VolumeSeeds(m eos.Model, p, T float64, n []float64) (vl, vv float64)

	// CriticalSeed returns a temperature and molar volume near the
	// critical point of composition n.
	CriticalSeed(m eos.Model, n []float64) (T, v float64, err error)
}

// Defaults is the correlation-backed provider used when the caller
// supplies none.
type Defaults struct{}

// OrDefault substitutes Defaults for a nil provider.
func OrDefault(p Provider) Provider {
	if p == nil {
		return Defaults{}
	}
	return p
}

func constants(m eos.Model) (eos.CriticalConstants, error) {
	cc, ok := m.(eos.CriticalConstants)
	if !ok {
		return nil, fmt.Errorf("guess: model does not expose critical constants")
	}
	return cc, nil
}

// wilson is the Wilson K-value estimate,
// K_i = (Pc_i/p) exp(5.373(1+w_i)(1 - Tc_i/T)).
func wilson(tc, pc, w, p, T float64) float64 {
	return pc / p * math.Exp(5.373*(1+w)*(1-tc/T))
}

func (Defaults) SaturationPressure(m eos.Model, T float64) (float64, error) {
	cc, err := constants(m)
	if err != nil {
		return 0, err
	}
	tcs, pcs, ws := cc.CriticalTemps(), cc.CriticalPressures(), cc.AcentricFactors()
	if len(tcs) != 1 {
		return 0, fmt.Errorf("guess: saturation pressure seed needs a pure model, got %d components", len(tcs))
	}
	if T >= tcs[0] {
		return 0, eos.ErrOutOfDomain
	}
	// Wilson with p = Psat means K = 1.
	return pcs[0] * math.Exp(5.373*(1+ws[0])*(1-tcs[0]/T)), nil
}

func (Defaults) WilsonK(m eos.Model, p, T float64) ([]float64, error) {
	cc, err := constants(m)
	if err != nil {
		return nil, err
	}
	tcs, pcs, ws := cc.CriticalTemps(), cc.CriticalPressures(), cc.AcentricFactors()
	out := make([]float64, len(tcs))
	for i := range out {
		out[i] = wilson(tcs[i], pcs[i], ws[i], p, T)
	}
	return out, nil
}

func (Defaults) VolumeSeeds(m eos.Model, p, T float64, n []float64) (vl, vv float64) {
	tot := 0.0
	for _, ni := range n {
		tot += ni
	}
	vl = 1.25 * m.CoVolume(n) / tot
	vv = eos.GasConstant * T / p
	return vl, vv
}

func (Defaults) CriticalSeed(m eos.Model, n []float64) (float64, float64, error) {
	cc, err := constants(m)
	if err != nil {
		return 0, 0, err
	}
	z, err := eos.Normalize(n)
	if err != nil {
		return 0, 0, err
	}
	tcs := cc.CriticalTemps()
	T := 0.0
	for i, zi := range z {
		T += zi * tcs[i]
	}
	// The critical volume of a cubic sits near four co-volumes.
	v := 4 * m.CoVolume(z)
	return T, v, nil
}

// AcentricFromBoiling is the Edmister estimate of the acentric factor
// from a normal boiling point:
//
//	w = (3/7) * log10(Pc/1 atm) / (Tc/Tb - 1) - 1.
func AcentricFromBoiling(tb, tc, pc float64) float64 {
	const atm = 101325.0
	return 3.0/7.0*math.Log10(pc/atm)/(tc/tb-1) - 1
}
