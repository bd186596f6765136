// Package tui renders a live optimization run in the terminal. The view
// pairs scrolling loss and step-size charts with a stats panel and supports
// pausing, reseeding and speed control without restarting the process.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mariogeiger/gradcmp-optim/internal/experiment"
)

const (
	historyCapacity = 600
	maxSpeed        = 64
)

var (
	chartStyle  = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives one experiment from the bubbletea event loop.
type Model struct {
	exp      *experiment.Experiment
	running  bool
	speed    int
	logScale bool
	showHelp bool
	err      error

	lossHist []float64
	dtHist   []float64

	calls    int
	accepted int
	loss     float64
	gradNorm float64
}

func NewModel(exp *experiment.Experiment) Model {
	return Model{
		exp:      exp,
		running:  true,
		speed:    1,
		logScale: true,
		lossHist: make([]float64, 0, historyCapacity),
		dtHist:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the run.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			if m.speed < maxSpeed {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "l":
			m.logScale = !m.logScale
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.speed; i++ {
				m.step()
				if m.err != nil {
					break
				}
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the optimizer by one call.
func (m *Model) step() {
	rec, err := m.exp.Step()
	if err != nil {
		m.err = err
		m.running = false
		return
	}

	m.calls = rec.Call + 1
	m.accepted = rec.Step
	m.loss = rec.Loss
	m.gradNorm = rec.GradNorm

	m.lossHist = append(m.lossHist, rec.Loss)
	if len(m.lossHist) > historyCapacity {
		m.lossHist = m.lossHist[1:]
	}
	m.dtHist = append(m.dtHist, rec.Dt)
	if len(m.dtHist) > historyCapacity {
		m.dtHist = m.dtHist[1:]
	}
}

// reset reseeds the experiment and clears the charts.
func (m *Model) reset() {
	if err := m.exp.Reset(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.running = true
	m.lossHist = m.lossHist[:0]
	m.dtHist = m.dtHist[:0]
	m.calls, m.accepted = 0, 0
	m.loss, m.gradNorm = 0, 0
}

// View renders the charts, the stats panel and the help overlay.
func (m Model) View() string {
	group := m.exp.Group()
	cfg := m.exp.Config()

	var charts strings.Builder
	if len(m.lossHist) > 1 {
		data, caption := m.lossHist, "loss"
		if m.logScale {
			data, caption = logSeries(m.lossHist), "log10 loss"
		}
		chart := asciigraph.Plot(data, asciigraph.Height(8), asciigraph.Width(56), asciigraph.Caption(caption))
		charts.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	if len(m.dtHist) > 1 {
		chart := asciigraph.Plot(m.dtHist, asciigraph.Height(5), asciigraph.Width(56), asciigraph.Caption("step size"))
		charts.WriteString(graphStyle.Render(chart) + "\n")
	}
	if charts.Len() == 0 {
		charts.WriteString(graphStyle.Render("waiting for data..."))
	}

	status := "RUNNING"
	if m.err != nil {
		status = "STOPPED"
	} else if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(cfg.Objective)) + "\n")
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4f", group.Time())) + "\n")
	s.WriteString(labelStyle.Render("Step size") + valueStyle.Render(fmt.Sprintf("%.3e", group.StepSize())) + "\n")
	s.WriteString(labelStyle.Render("Calls") + valueStyle.Render(fmt.Sprintf("%d", m.calls)) + "\n")
	acceptance := 0.0
	if m.calls > 0 {
		acceptance = float64(m.accepted) / float64(m.calls) * 100
	}
	s.WriteString(labelStyle.Render("Accepted") + valueStyle.Render(fmt.Sprintf("%d (%.0f%%)", m.accepted, acceptance)) + "\n")
	s.WriteString(labelStyle.Render("Loss") + valueStyle.Render(fmt.Sprintf("%.6e", m.loss)) + "\n")
	s.WriteString(labelStyle.Render("Grad norm") + valueStyle.Render(fmt.Sprintf("%.6e", m.gradNorm)) + "\n")
	s.WriteString(labelStyle.Render("Tau") + valueStyle.Render(fmt.Sprintf("%.2f", cfg.Tau)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("x%d", m.speed)) + "\n")

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("stopped: "+m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nL:Scale +/-:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, chartStyle.Render(charts.String()), statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume run         ║
║  R        - Reset from the seed      ║
║  Q        - Quit                     ║
║  L        - Toggle log loss scale    ║
║  +        - Double steps per frame   ║
║  -        - Halve steps per frame    ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func logSeries(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Log10(math.Max(v, 1e-300))
	}
	return out
}
