package eos

import "math"

// Normalize returns a fresh slice scaled to unit sum. The input is
// never mutated. Negative entries or a vanishing sum are out of domain.
func Normalize(n []float64) ([]float64, error) {
	total := 0.0
	for _, v := range n {
		if v < 0 || math.IsNaN(v) {
			return nil, ErrOutOfDomain
		}
		total += v
	}
	if total <= 0 {
		return nil, ErrOutOfDomain
	}
	out := make([]float64, len(n))
	for i, v := range n {
		out[i] = v / total
	}
	return out, nil
}

// MaxDiff returns the largest absolute componentwise difference between
// two composition vectors.
func MaxDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		if v := math.Abs(a[i] - b[i]); v > d {
			d = v
		}
	}
	return d
}
