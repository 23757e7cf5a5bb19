package sweep

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/equilibrium"
	"github.com/jmaravall/phaseq/internal/models"
	"github.com/jmaravall/phaseq/internal/saturation"
)

func methanePR(t *testing.T) eos.Model {
	t.Helper()
	ps, err := eos.NewParamSet([]string{"methane"}, map[string][]float64{
		"tc":    {190.564},
		"pc":    {4.5992e6},
		"omega": {0.01142},
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

func methaneEthanePR(t *testing.T) eos.Model {
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

func TestSaturationCurveParallel(t *testing.T) {
	m := methanePR(t)
	var calls atomic.Int64
	curve, err := SaturationCurve(context.Background(), m, 150, 185, 7, SaturationOptions{
		Sweep: Options{Workers: 3, OnPoint: func(int, float64, error) { calls.Add(1) }},
	})
	if err != nil {
		t.Fatalf("SaturationCurve: %v", err)
	}
	if len(curve.Points) != 8 {
		t.Fatalf("got %d points, want 8", len(curve.Points))
	}
	if len(curve.Failures) != 0 {
		t.Errorf("unexpected failures: %+v", curve.Failures)
	}
	if calls.Load() != 8 {
		t.Errorf("OnPoint called %d times, want 8", calls.Load())
	}
	for i, pt := range curve.Points {
		want := 150 + 5*float64(i)
		if pt.T != want {
			t.Errorf("point %d at T = %v, want %v", i, pt.T, want)
		}
		ref, err := saturation.Solve(m, pt.T, saturation.Options{})
		if err != nil {
			t.Fatalf("reference solve at %v K: %v", pt.T, err)
		}
		if math.Abs(pt.P-ref.P)/ref.P > 1e-9 {
			t.Errorf("P(%v) = %v, direct solve gives %v", pt.T, pt.P, ref.P)
		}
		if i > 0 && pt.P <= curve.Points[i-1].P {
			t.Errorf("vapor pressure not increasing at %v K", pt.T)
		}
	}
}

func TestSaturationCurveSkipsSupercriticalTail(t *testing.T) {
	m := methanePR(t)
	curve, err := SaturationCurve(context.Background(), m, 120, 220, 5, SaturationOptions{})
	if err != nil {
		t.Fatalf("SaturationCurve: %v", err)
	}
	// 200 K and 220 K sit above the critical temperature; those grid
	// values become gaps, not an abort.
	if len(curve.Points) != 4 {
		t.Errorf("got %d points, want 4", len(curve.Points))
	}
	if len(curve.Failures) != 2 {
		t.Fatalf("got %d failures, want 2: %+v", len(curve.Failures), curve.Failures)
	}
	if curve.Failures[0].At != 200 || curve.Failures[1].At != 220 {
		t.Errorf("failures at %v and %v, want 200 and 220", curve.Failures[0].At, curve.Failures[1].At)
	}
	for _, f := range curve.Failures {
		if f.Err == nil {
			t.Errorf("failure at %v carries no error", f.At)
		}
	}
}

func TestSaturationCurveSeededMatchesParallel(t *testing.T) {
	m := methanePR(t)
	par, err := SaturationCurve(context.Background(), m, 150, 185, 7, SaturationOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var order []int
	ser, err := SaturationCurve(context.Background(), m, 150, 185, 7, SaturationOptions{
		Sweep: Options{Seeded: true, OnPoint: func(i int, v float64, err error) { order = append(order, i) }},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ser.Points) != len(par.Points) {
		t.Fatalf("seeded walk found %d points, parallel %d", len(ser.Points), len(par.Points))
	}
	for i := range ser.Points {
		if math.Abs(ser.Points[i].P-par.Points[i].P)/par.Points[i].P > 1e-8 {
			t.Errorf("T = %v: seeded P = %v, parallel P = %v", ser.Points[i].T, ser.Points[i].P, par.Points[i].P)
		}
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("seeded walk visited %v, want grid order", order)
		}
	}
}

func TestBubbleCurveEnvelope(t *testing.T) {
	m := methaneEthanePR(t)
	curve, err := BubbleCurve(context.Background(), m, 180, 0.1, 0.9, 8, BubbleOptions{})
	if err != nil {
		t.Fatalf("BubbleCurve: %v", err)
	}
	if len(curve.Points) != 9 {
		t.Fatalf("got %d points, want 9", len(curve.Points))
	}
	for i, pt := range curve.Points {
		if pt.Y[0] <= pt.X1 {
			t.Errorf("x1 = %v: vapor fraction %v not enriched in the light component", pt.X1, pt.Y[0])
		}
		if i > 0 && pt.P <= curve.Points[i-1].P {
			t.Errorf("bubble pressure not increasing at x1 = %v", pt.X1)
		}
	}
	// The midpoint is the equimolar bubble point.
	mid := curve.Points[4]
	if math.Abs(mid.X1-0.5) > 1e-12 {
		t.Fatalf("midpoint at x1 = %v, want 0.5", mid.X1)
	}
	if math.Abs(mid.P-1.574030e6)/1.574030e6 > 1e-4 {
		t.Errorf("equimolar bubble pressure = %v, want about 1.574030e6", mid.P)
	}
}

func TestBubbleCurveSeededMatchesParallel(t *testing.T) {
	m := methaneEthanePR(t)
	par, err := BubbleCurve(context.Background(), m, 180, 0.1, 0.9, 8, BubbleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	ser, err := BubbleCurve(context.Background(), m, 180, 0.1, 0.9, 8, BubbleOptions{
		Sweep: Options{Seeded: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ser.Points) != len(par.Points) {
		t.Fatalf("seeded walk found %d points, parallel %d", len(ser.Points), len(par.Points))
	}
	for i := range ser.Points {
		if math.Abs(ser.Points[i].P-par.Points[i].P)/par.Points[i].P > 1e-6 {
			t.Errorf("x1 = %v: seeded P = %v, parallel P = %v", ser.Points[i].X1, ser.Points[i].P, par.Points[i].P)
		}
	}
}

func TestSweepRejectsBadGrids(t *testing.T) {
	m := methaneEthanePR(t)
	if _, err := SaturationCurve(context.Background(), methanePR(t), 150, 180, 0, SaturationOptions{}); !errors.Is(err, eos.ErrOutOfDomain) {
		t.Errorf("zero steps: err = %v, want ErrOutOfDomain", err)
	}
	if _, err := BubbleCurve(context.Background(), m, 180, 0, 0.9, 4, BubbleOptions{}); !errors.Is(err, eos.ErrOutOfDomain) {
		t.Errorf("boundary composition: err = %v, want ErrOutOfDomain", err)
	}
	if _, err := BubbleCurve(context.Background(), methanePR(t), 180, 0.1, 0.9, 4, BubbleOptions{}); !errors.Is(err, eos.ErrOutOfDomain) {
		t.Errorf("pure model: err = %v, want ErrOutOfDomain", err)
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SaturationCurve(ctx, methanePR(t), 150, 185, 7, SaturationOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	_, err = SaturationCurve(ctx, methanePR(t), 150, 185, 7, SaturationOptions{
		Sweep: Options{Seeded: true},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("seeded: err = %v, want context.Canceled", err)
	}
	var opt BubbleOptions
	_, err = BubbleCurve(ctx, methaneEthanePR(t), 180, 0.1, 0.9, 4, opt)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("envelope: err = %v, want context.Canceled", err)
	}
}

func TestBubbleCurveUsesDistinctFeedPerPoint(t *testing.T) {
	m := methaneEthanePR(t)
	curve, err := BubbleCurve(context.Background(), m, 180, 0.2, 0.8, 3, BubbleOptions{
		Equilibrium: equilibrium.Options{Tol: 1e-10},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range curve.Points {
		if math.Abs(pt.X[0]-pt.X1) > 1e-12 {
			t.Errorf("point at x1 = %v reports liquid composition %v", pt.X1, pt.X[0])
		}
	}
}
