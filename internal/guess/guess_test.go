package guess

import (
	"errors"
	"math"
	"testing"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/models"
)

func methanePR(t *testing.T) eos.Model {
	t.Helper()
	ps, err := eos.NewParamSet([]string{"methane"}, map[string][]float64{
		"tc": {190.564}, "pc": {4.5992e6}, "omega": {0.01142},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := models.NewPengRobinson(ps)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSaturationPressureSeed(t *testing.T) {
	m := methanePR(t)
	var g Defaults
	p, err := g.SaturationPressure(m, 150)
	if err != nil {
		t.Fatalf("SaturationPressure: %v", err)
	}
	// Methane Psat(150 K) is about 1.04 MPa; the Wilson-form estimate
	// must land within a factor of two.
	if p < 0.5e6 || p > 2.2e6 {
		t.Errorf("seed pressure %v Pa implausible", p)
	}
	if _, err := g.SaturationPressure(m, 250); !errors.Is(err, eos.ErrOutOfDomain) {
		t.Errorf("above-critical seed error = %v, want ErrOutOfDomain", err)
	}
}

func TestWilsonKAtSeedPressure(t *testing.T) {
	m := methanePR(t)
	var g Defaults
	p, err := g.SaturationPressure(m, 150)
	if err != nil {
		t.Fatal(err)
	}
	k, err := g.WilsonK(m, p, 150)
	if err != nil {
		t.Fatalf("WilsonK: %v", err)
	}
	// At its own estimated saturation pressure a pure component has
	// K = 1 exactly, by construction.
	if math.Abs(k[0]-1) > 1e-12 {
		t.Errorf("K at seed Psat = %v, want 1", k[0])
	}
}

func TestVolumeSeedsOrdering(t *testing.T) {
	m := methanePR(t)
	var g Defaults
	vl, vv := g.VolumeSeeds(m, 1e6, 150, []float64{1})
	if vl >= vv {
		t.Errorf("liquid seed %v not below vapor seed %v", vl, vv)
	}
	if vl <= m.CoVolume([]float64{1}) {
		t.Errorf("liquid seed %v inside co-volume", vl)
	}
	if want := eos.GasConstant * 150 / 1e6; math.Abs(vv-want) > 1e-12*want {
		t.Errorf("vapor seed %v, want ideal-gas %v", vv, want)
	}
}

func TestCriticalSeed(t *testing.T) {
	m := methanePR(t)
	var g Defaults
	T, v, err := g.CriticalSeed(m, []float64{2}) // mole numbers, not fractions
	if err != nil {
		t.Fatalf("CriticalSeed: %v", err)
	}
	if math.Abs(T-190.564) > 1e-9 {
		t.Errorf("seed T = %v, want tabulated Tc", T)
	}
	vcTrue := 0.3074 * eos.GasConstant * 190.564 / 4.5992e6
	if v < 0.5*vcTrue || v > 2*vcTrue {
		t.Errorf("seed volume %v far from vc %v", v, vcTrue)
	}
}

func TestAcentricFromBoiling(t *testing.T) {
	// Propane: Tb = 231.05 K, Tc = 369.89 K, Pc = 4.2512 MPa, w = 0.152.
	w := AcentricFromBoiling(231.05, 369.89, 4.2512e6)
	if math.Abs(w-0.152) > 0.03 {
		t.Errorf("Edmister w = %v, want about 0.152", w)
	}
}

func TestOrDefault(t *testing.T) {
	if _, ok := OrDefault(nil).(Defaults); !ok {
		t.Error("nil provider did not map to Defaults")
	}
	var g Defaults
	if OrDefault(g) != g {
		t.Error("explicit provider replaced")
	}
}
