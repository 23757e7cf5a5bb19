package equilibrium

import (
	"errors"
	"math"
	"testing"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/models"
	"github.com/jmaravall/phaseq/internal/saturation"
)

func binaryPR(t *testing.T) eos.Model {
	t.Helper()
	ps, err := eos.NewParamSet([]string{"methane", "ethane"}, map[string][]float64{
		"tc":    {190.564, 305.322},
		"pc":    {4.5992e6, 4.8722e6},
		"omega": {0.01142, 0.0995},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := models.New("pr", ps)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// symmetricPR pairs two methane-like components with a positive
// interaction coefficient. Every equilibrium of this system is
// mirror-symmetric in composition, which pins the expected answers
// without external reference data.
func symmetricPR(t *testing.T, kij float64) eos.Model {
	t.Helper()
	ps, err := eos.NewParamSet([]string{"a", "b"}, map[string][]float64{
		"tc":    {190.564, 190.564},
		"pc":    {4.5992e6, 4.5992e6},
		"omega": {0.01142, 0.01142},
	}, map[string][][]float64{"kij": {{0, kij}, {kij, 0}}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := models.New("pr", ps)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func purePR(t *testing.T, tc, pc, w float64) eos.Model {
	t.Helper()
	ps, err := eos.NewParamSet([]string{"x"}, map[string][]float64{
		"tc": {tc}, "pc": {pc}, "omega": {w},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := models.New("pr", ps)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBubblePressureBinary(t *testing.T) {
	m := binaryPR(t)
	const T = 180.0
	res, err := BubblePressure(m, T, []float64{0.5, 0.5}, Options{})
	if err != nil {
		t.Fatalf("BubblePressure: %v", err)
	}
	if math.Abs(res.P-1.574030e6)/1.574030e6 > 1e-4 {
		t.Errorf("P = %v, want about 1.574030e6", res.P)
	}
	if math.Abs(res.Y[0]-0.95610) > 1e-3 {
		t.Errorf("y[0] = %v, want about 0.95610", res.Y[0])
	}
	sum := res.Y[0] + res.Y[1]
	if math.Abs(sum-1) > 1e-8 {
		t.Errorf("vapor composition sums to %v", sum)
	}
	if res.Vvap <= res.Vliq {
		t.Errorf("vapor volume %v not above liquid %v", res.Vvap, res.Vliq)
	}

	// The bubble pressure of the mixture has to sit strictly between
	// the two pure-component vapor pressures.
	light, err := saturation.Solve(purePR(t, 190.564, 4.5992e6, 0.01142), T, saturation.Options{})
	if err != nil {
		t.Fatal(err)
	}
	heavy, err := saturation.Solve(purePR(t, 305.322, 4.8722e6, 0.0995), T, saturation.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.P <= heavy.P || res.P >= light.P {
		t.Errorf("bubble P %v outside (%v, %v)", res.P, heavy.P, light.P)
	}
}

func TestDewRecoversBubble(t *testing.T) {
	m := binaryPR(t)
	const T = 180.0
	bub, err := BubblePressure(m, T, []float64{0.5, 0.5}, Options{})
	if err != nil {
		t.Fatalf("BubblePressure: %v", err)
	}
	dew, err := DewPressure(m, T, bub.Y, Options{})
	if err != nil {
		t.Fatalf("DewPressure: %v", err)
	}
	if math.Abs(dew.P-bub.P)/bub.P > 1e-5 {
		t.Errorf("dew P = %v, bubble P = %v", dew.P, bub.P)
	}
	for i, want := range []float64{0.5, 0.5} {
		if math.Abs(dew.X[i]-want) > 1e-5 {
			t.Errorf("x[%d] = %v, want %v", i, dew.X[i], want)
		}
	}
}

func TestBubbleDoesNotMutateFeed(t *testing.T) {
	m := binaryPR(t)
	x := []float64{1, 1}
	if _, err := BubblePressure(m, 180, x, Options{}); err != nil {
		t.Fatalf("BubblePressure: %v", err)
	}
	if x[0] != 1 || x[1] != 1 {
		t.Errorf("feed mutated: %v", x)
	}
}

func TestAzeotropeSymmetric(t *testing.T) {
	m := symmetricPR(t, 0.1)
	const T = 150.0
	res, err := AzeotropePressure(m, T, Options{})
	if err != nil {
		t.Fatalf("AzeotropePressure: %v", err)
	}
	if math.Abs(res.X[0]-0.5) > 1e-5 {
		t.Errorf("azeotrope x[0] = %v, want 0.5", res.X[0])
	}
	if math.Abs(res.P-1.302277e6)/1.302277e6 > 1e-4 {
		t.Errorf("P = %v, want about 1.302277e6", res.P)
	}

	// Positive deviation: a pressure-maximum azeotrope lies above the
	// pure vapor pressure.
	pure, err := saturation.Solve(purePR(t, 190.564, 4.5992e6, 0.01142), T, saturation.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.P <= pure.P {
		t.Errorf("azeotrope P %v not above pure Psat %v", res.P, pure.P)
	}
}

func TestAzeotropePureComponent(t *testing.T) {
	m := purePR(t, 190.564, 4.5992e6, 0.01142)
	_, err := AzeotropePressure(m, 150, Options{})
	if !errors.Is(err, eos.ErrOutOfDomain) {
		t.Errorf("err = %v, want ErrOutOfDomain", err)
	}
}

func TestAzeotropeZeotropicMixture(t *testing.T) {
	// Methane/ethane has no azeotrope: the search collapses onto a
	// coincident-root state and must say so instead of returning it.
	m := binaryPR(t)
	_, err := AzeotropePressure(m, 180, Options{})
	if !errors.Is(err, eos.ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestLLESymmetricSplit(t *testing.T) {
	m := symmetricPR(t, 0.3)
	const T = 130.0
	// Feed on the binodal at 1 MPa.
	z := []float64{0.08919265388346792, 0.91080734611653208}
	res, err := LLEPressure(m, T, z, Options{})
	if err != nil {
		t.Fatalf("LLEPressure: %v", err)
	}
	if math.Abs(res.P-1e6)/1e6 > 1e-4 {
		t.Errorf("P = %v, want about 1e6", res.P)
	}
	// Mirror symmetry: the second liquid is the feed reflected.
	if math.Abs(res.X2[0]-(1-z[0])) > 1e-5 {
		t.Errorf("x2[0] = %v, want %v", res.X2[0], 1-z[0])
	}
	if res.Vl1 <= 0 || res.Vl2 <= 0 {
		t.Errorf("non-positive liquid volumes %v %v", res.Vl1, res.Vl2)
	}
}

func TestLLETrivialRootReported(t *testing.T) {
	// A nearly ideal pair has no liquid split; seeding next to the feed
	// drives the iteration onto the trivial equal-composition root.
	m := symmetricPR(t, 0.05)
	z := []float64{0.3, 0.7}
	_, err := LLEPressure(m, 130, z, Options{
		Guess: &Guess{P: 1e6, Comp: []float64{0.31, 0.69}},
	})
	if !errors.Is(err, eos.ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestVLLESymmetric(t *testing.T) {
	m := symmetricPR(t, 0.25)
	const T = 130.0
	res, err := VLLE(m, T, []float64{0.5, 0.5}, VLLEOptions{})
	if err != nil {
		t.Fatalf("VLLE: %v", err)
	}
	if math.Abs(res.P-698468)/698468 > 1e-4 {
		t.Errorf("P = %v, want about 698468", res.P)
	}
	if math.Abs(res.X1[0]-0.80278) > 1e-4 {
		t.Errorf("x1[0] = %v, want about 0.80278", res.X1[0])
	}
	if math.Abs(res.X1[0]+res.X2[0]-1) > 1e-5 {
		t.Errorf("liquids not mirrored: %v %v", res.X1[0], res.X2[0])
	}
	if math.Abs(res.Y[0]-0.5) > 1e-5 {
		t.Errorf("y[0] = %v, want 0.5", res.Y[0])
	}
	sum := 0.0
	for _, f := range res.Fractions {
		sum += f
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("fractions sum to %v", sum)
	}
	// Equimolar feed levers the two liquids equally.
	if math.Abs(res.Fractions[0]-0.5) > 1e-5 || math.Abs(res.Fractions[1]-0.5) > 1e-5 {
		t.Errorf("fractions = %v, want [0.5 0.5 0]", res.Fractions)
	}
	if res.Vv <= res.Vl1 || res.Vv <= res.Vl2 {
		t.Errorf("vapor volume %v not above liquids %v %v", res.Vv, res.Vl1, res.Vl2)
	}
}

func TestVLLEFeedOutsideRegion(t *testing.T) {
	m := symmetricPR(t, 0.25)
	_, err := VLLE(m, 130, []float64{0.05, 0.95}, VLLEOptions{})
	if !errors.Is(err, eos.ErrInfeasible) {
		t.Errorf("err = %v, want ErrInfeasible", err)
	}
}

func TestVLLERequiresBinary(t *testing.T) {
	m := purePR(t, 190.564, 4.5992e6, 0.01142)
	_, err := VLLE(m, 130, []float64{1}, VLLEOptions{})
	if !errors.Is(err, eos.ErrOutOfDomain) {
		t.Errorf("err = %v, want ErrOutOfDomain", err)
	}
}
