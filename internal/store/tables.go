package store

import (
	"github.com/jmaravall/phaseq/internal/locus"
	"github.com/jmaravall/phaseq/internal/sweep"
)

// SatTable flattens a saturation curve into T, P and the phase
// volumes.
func SatTable(c sweep.SatCurve) Table {
	tbl := Table{Columns: []string{"T", "P", "v_liq", "v_vap"}}
	for _, pt := range c.Points {
		tbl.Rows = append(tbl.Rows, []float64{pt.T, pt.P, pt.Vliq, pt.Vvap})
	}
	return tbl
}

// EnvelopeTable flattens a binary bubble curve into the P-x-y form.
func EnvelopeTable(c sweep.Envelope) Table {
	tbl := Table{Columns: []string{"x1", "y1", "P", "v_liq", "v_vap"}}
	for _, pt := range c.Points {
		tbl.Rows = append(tbl.Rows, []float64{pt.X1, pt.Y[0], pt.P, pt.Vliq, pt.Vvap})
	}
	return tbl
}

// UCSTTable flattens a critical branch into P, T, v and composition.
func UCSTTable(c locus.UCSTCurve) Table {
	tbl := Table{Columns: []string{"P", "T", "v", "z1"}}
	for _, pt := range c.Points {
		tbl.Rows = append(tbl.Rows, []float64{pt.P, pt.T, pt.V, pt.Z[0]})
	}
	return tbl
}

// VLLETable flattens a three-phase line into the temperature, the
// pressure and the three phase compositions.
func VLLETable(c locus.VLLECurve) Table {
	tbl := Table{Columns: []string{"T", "P", "x1_liq1", "x1_liq2", "y1"}}
	for _, pt := range c.Points {
		tbl.Rows = append(tbl.Rows, []float64{pt.T, pt.P, pt.X1[0], pt.X2[0], pt.Y[0]})
	}
	return tbl
}
