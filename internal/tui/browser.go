package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmaravall/phaseq/internal/store"
	"github.com/jmaravall/phaseq/internal/viz"
)

// Browser is a two-pane view over saved runs: a selectable list and a
// plot of the selected run's primary column.
type Browser struct {
	st       *store.Store
	runs     []store.Run
	cursor   int
	plot     string
	errLine  string
	quitting bool
}

func NewBrowser(st *store.Store) (Browser, error) {
	runs, err := st.List()
	if err != nil {
		return Browser{}, err
	}
	b := Browser{st: st, runs: runs}
	b.reload()
	return b, nil
}

func (b *Browser) reload() {
	b.plot, b.errLine = "", ""
	if len(b.runs) == 0 {
		return
	}
	run := b.runs[b.cursor]
	tbl, err := b.st.LoadPoints(run.ID)
	if err != nil {
		b.errLine = err.Error()
		return
	}
	if len(tbl.Columns) < 2 || len(tbl.Rows) < 2 {
		b.errLine = "run has too few points to plot"
		return
	}
	// Column 0 is the swept quantity, column 1 the primary response.
	xs := make([]float64, len(tbl.Rows))
	ys := make([]float64, len(tbl.Rows))
	for i, row := range tbl.Rows {
		xs[i], ys[i] = row[0], row[1]
	}
	caption := fmt.Sprintf("%s vs %s", tbl.Columns[1], tbl.Columns[0])
	b.plot = viz.PlotXY(xs, ys, caption, 64, 12)
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			b.quitting = true
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
				b.reload()
			}
		case "down", "j":
			if b.cursor < len(b.runs)-1 {
				b.cursor++
				b.reload()
			}
		}
	}
	return b, nil
}

func (b Browser) View() string {
	if b.quitting {
		return ""
	}
	var s strings.Builder
	s.WriteString(viz.HeaderStyle.Render("saved runs") + "\n")
	if len(b.runs) == 0 {
		s.WriteString(viz.HintStyle.Render("no runs yet") + "\n")
		return s.String()
	}
	for i, run := range b.runs {
		line := fmt.Sprintf("%s  %s  %s  %d points", run.ID, run.Model, strings.Join(run.Species, "/"), run.Points)
		if i == b.cursor {
			line = viz.OKStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		s.WriteString(line + "\n")
	}
	if b.errLine != "" {
		s.WriteString(viz.FailStyle.Render(b.errLine) + "\n")
	}
	if b.plot != "" {
		s.WriteString("\n" + b.plot + "\n")
	}
	s.WriteString(viz.HintStyle.Render("\nup/down to select, q to quit") + "\n")
	return s.String()
}
