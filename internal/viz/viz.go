// Package viz renders solver output for the terminal: asciigraph
// curve plots and lipgloss-styled summaries. It is presentation only;
// nothing here touches a solver.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	FailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	HintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// KV is one row of a summary block.
type KV struct {
	Label string
	Value string
}

// Summary renders a titled label/value block.
func Summary(title string, rows []KV) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(LabelStyle.Render(row.Label))
		b.WriteString(ValueStyle.Render(row.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// Plot draws a series against its index.
func Plot(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return HintStyle.Render("not enough points to plot")
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotXY draws y against x. The plotting backend assumes evenly
// spaced samples, so the curve is resampled onto a uniform x grid by
// linear interpolation first; xs must be strictly increasing.
func PlotXY(xs, ys []float64, caption string, width, height int) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return HintStyle.Render("not enough points to plot")
	}
	n := width
	if n < len(xs) {
		n = len(xs)
	}
	resampled := make([]float64, n)
	span := xs[len(xs)-1] - xs[0]
	j := 0
	for i := range resampled {
		x := xs[0] + span*float64(i)/float64(n-1)
		for j < len(xs)-2 && xs[j+1] < x {
			j++
		}
		t := (x - xs[j]) / (xs[j+1] - xs[j])
		resampled[i] = ys[j] + t*(ys[j+1]-ys[j])
	}
	footer := fmt.Sprintf("%s  (x: %g to %g)", caption, xs[0], xs[len(xs)-1])
	return asciigraph.Plot(resampled,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(footer),
	)
}

// FormatSI prints a value with unit, switching to scientific notation
// outside the comfortable range.
func FormatSI(v float64, unit string) string {
	av := math.Abs(v)
	if av != 0 && (av < 1e-3 || av >= 1e6) {
		return fmt.Sprintf("%.6e %s", v, unit)
	}
	return fmt.Sprintf("%.6g %s", v, unit)
}
