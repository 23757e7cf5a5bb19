package eos

import (
	"errors"
	"math"
	"testing"
)

// testFluid is a one-parameter-pair van der Waals fluid used to
// exercise the accessors against closed forms.
type testFluid struct {
	a, b  float64
	names []string
}

func (f *testFluid) Names() []string { return f.names }

func (f *testFluid) CoVolume(n []float64) float64 {
	tot := 0.0
	for _, v := range n {
		tot += v
	}
	return f.b * tot
}

func (f *testFluid) Residual(s State) float64 {
	n := s.Moles()
	return -n*math.Log(1-n*f.b/s.V) - n*n*f.a/(s.V*GasConstant*s.T)
}

// pressureOf is the closed-form isotherm, attached as the capability
// only when analytic is set.
func (f *testFluid) pressureOf(s State) float64 {
	n := s.Moles()
	return n*GasConstant*s.T/(s.V-n*f.b) - f.a*n*n/(s.V*s.V)
}

type analyticFluid struct{ *testFluid }

func (f analyticFluid) Pressure(s State) float64 { return f.pressureOf(s) }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		want    []float64
		wantErr error
	}{
		{"already unit", []float64{0.25, 0.75}, []float64{0.25, 0.75}, nil},
		{"rescale", []float64{2, 2}, []float64{0.5, 0.5}, nil},
		{"moles", []float64{1, 3}, []float64{0.25, 0.75}, nil},
		{"negative entry", []float64{-0.1, 1.1}, nil, ErrOutOfDomain},
		{"zero sum", []float64{0, 0}, nil, ErrOutOfDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.in...)
			got, err := Normalize(in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Normalize error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-14 {
					t.Errorf("component %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
			for i := range in {
				if in[i] != tt.in[i] {
					t.Errorf("input mutated at %d: %v -> %v", i, tt.in[i], in[i])
				}
			}
		})
	}
}

func TestParamSetValidation(t *testing.T) {
	comps := []string{"A", "B"}
	tests := []struct {
		name    string
		scalars map[string][]float64
		pairs   map[string][][]float64
		wantErr bool
	}{
		{"valid", map[string][]float64{"tc": {300, 400}}, map[string][][]float64{"kij": {{0, 0.1}, {0.1, 0}}}, false},
		{"scalar length", map[string][]float64{"tc": {300}}, nil, true},
		{"pair rows", nil, map[string][][]float64{"kij": {{0, 0.1}}}, true},
		{"pair asymmetric", nil, map[string][][]float64{"kij": {{0, 0.1}, {0.2, 0}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParamSet(comps, tt.scalars, tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewParamSet error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParamSetImmutable(t *testing.T) {
	vals := []float64{300, 400}
	kij := [][]float64{{0, 0.05}, {0.05, 0}}
	ps, err := NewParamSet([]string{"A", "B"}, map[string][]float64{"tc": vals}, map[string][][]float64{"kij": kij})
	if err != nil {
		t.Fatalf("NewParamSet: %v", err)
	}
	vals[0] = -1
	kij[0][1] = 99
	tc, ok := ps.Scalar("tc")
	if !ok || tc.At(0) != 300 {
		t.Errorf("scalar table shares caller storage: got %v", tc.At(0))
	}
	k, ok := ps.Pair("kij")
	if !ok || k.At(0, 1) != 0.05 {
		t.Errorf("pair table shares caller storage: got %v", k.At(0, 1))
	}
	if _, ok := ps.Scalar("missing"); ok {
		t.Error("lookup of absent table succeeded")
	}
}

func TestSolveErrorUnwrap(t *testing.T) {
	err := &SolveError{Op: "volume", Iter: 17, Err: ErrNotConverged}
	if !errors.Is(err, ErrNotConverged) {
		t.Error("errors.Is failed through SolveError")
	}
	if errors.Is(err, ErrInfeasible) {
		t.Error("errors.Is matched the wrong kind")
	}
	if err.Error() == "" {
		t.Error("empty error string")
	}
}

func TestStateHelpers(t *testing.T) {
	s := State{T: 300, V: 1e-3, N: []float64{1, 2}}
	if got := s.Moles(); math.Abs(got-3) > 1e-15 {
		t.Errorf("Moles = %v, want 3", got)
	}
	c := s.Clone()
	c.N[0] = 5
	if s.N[0] != 1 {
		t.Error("Clone shares the mole slice")
	}
	bad := State{T: -1, V: 1e-3, N: []float64{1}}
	if bad.IsValid() {
		t.Error("negative temperature reported valid")
	}
	nan := State{T: 300, V: 1e-3, N: []float64{math.NaN()}}
	if nan.IsValid() {
		t.Error("NaN composition reported valid")
	}
}
