// Package tui holds the interactive terminal front ends: a live view
// that renders a sweep while it converges and a browser over saved
// runs.
package tui

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmaravall/phaseq/internal/viz"
)

// PointMsg reports one finished grid point to the live view.
type PointMsg struct {
	Index int
	At    float64
	Value float64
	Err   error
}

// DoneMsg tells the live view the sweep finished.
type DoneMsg struct{}

// Live renders sweep progress: a counter, the last failure, and the
// running curve of the points converged so far.
type Live struct {
	title  string
	unit   string
	total  int
	ch     <-chan PointMsg
	values []float64
	solved int
	failed int
	last   string
	done   bool
}

func NewLive(title, unit string, total int, ch <-chan PointMsg) Live {
	values := make([]float64, total)
	for i := range values {
		values[i] = math.NaN()
	}
	return Live{title: title, unit: unit, total: total, ch: ch, values: values}
}

func (m Live) Init() tea.Cmd {
	return m.wait()
}

func (m Live) wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.ch
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PointMsg:
		if msg.Err != nil {
			m.failed++
			m.last = fmt.Sprintf("at %g: %v", msg.At, msg.Err)
		} else {
			m.solved++
			if msg.Index >= 0 && msg.Index < len(m.values) {
				m.values[msg.Index] = msg.Value
			}
		}
		return m, m.wait()
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Live) View() string {
	s := viz.HeaderStyle.Render(m.title) + "\n"
	s += fmt.Sprintf("%d/%d points", m.solved+m.failed, m.total)
	if m.failed > 0 {
		s += viz.FailStyle.Render(fmt.Sprintf("  %d failed", m.failed))
	}
	s += "\n"
	if m.last != "" {
		s += viz.FailStyle.Render("last failure "+m.last) + "\n"
	}
	if got := m.converged(); len(got) >= 2 {
		s += "\n" + viz.Plot(got, m.unit, 64, 12) + "\n"
	}
	if m.done {
		s += viz.OKStyle.Render("\ndone") + "\n"
	} else {
		s += viz.HintStyle.Render("\nq to quit") + "\n"
	}
	return s
}

// converged compacts the slotted values, keeping grid order and
// skipping gaps.
func (m Live) converged() []float64 {
	out := make([]float64, 0, m.solved)
	for _, v := range m.values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
