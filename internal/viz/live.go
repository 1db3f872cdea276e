package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinetic/internal/engine"
	"github.com/san-kum/kinetic/internal/motion"
)

const (
	graphWidth      = 70
	graphHeight     = 14
	historyCapacity = 300
	frameRate       = 60
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives one animated value interactively and plots its recent history.
type Model struct {
	value   *engine.Value
	cfg     *motion.Config
	history []float64
	target  float64
	looping bool

	// The graph viewport scale is itself spring-smoothed so rescaling on
	// retarget doesn't jump (the engine animates the value; harmonica only
	// cosmetically eases the view).
	scaleSpring harmonica.Spring
	scalePos    float64
	scaleVel    float64
	lastTick    time.Time

	// Shared across model copies: onRest fires asynchronously against an
	// older copy of the model.
	counts *counters
}

type counters struct {
	rests   int
	cancels int
	starts  int
}

func NewModel(value *engine.Value, cfg *motion.Config) Model {
	return Model{
		value:       value,
		cfg:         cfg,
		history:     make([]float64, 0, historyCapacity),
		target:      100,
		scaleSpring: harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 0.8),
		scalePos:    100,
		counts:      &counters{},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.value.Stop(true)
			return m, tea.Quit
		case "t":
			m.target = float64(rand.Intn(200) - 50)
			m.retarget()
		case " ":
			if m.value.IsPaused() {
				m.value.Resume()
			} else {
				m.value.Pause()
			}
		case "l":
			m.looping = !m.looping
			if m.looping {
				m.startLoop()
			} else {
				m.value.Stop(false)
			}
		case "f":
			m.value.Finish()
		case "r":
			m.value.Reset() //nolint:errcheck
		case "c":
			m.value.Stop(true)
			m.counts.cancels++
		}

	case TickMsg:
		now := time.Time(msg)
		dt := 16.7
		if !m.lastTick.IsZero() {
			dt = float64(now.Sub(m.lastTick)) / float64(time.Millisecond)
		}
		m.lastTick = now

		m.value.Advance(dt)

		v := m.value.Get()[0]
		m.history = append(m.history, v)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}

		m.scalePos, m.scaleVel = m.scaleSpring.Update(m.scalePos, m.scaleVel, m.target)
		return m, tick()
	}
	return m, nil
}

func (m *Model) retarget() {
	counts := m.counts
	_, err := m.value.Start(engine.Update{
		To:     engine.Scalar(m.target),
		Config: m.cfg,
		OnRest: func(r engine.Result) {
			if r.Finished {
				counts.rests++
			}
		},
	})
	if err == nil {
		counts.starts++
	}
}

func (m *Model) startLoop() {
	m.value.Start(engine.Update{ //nolint:errcheck
		From:    engine.Scalar(0),
		To:      engine.Scalar(m.target),
		Config:  m.cfg,
		Loop:    engine.Forever,
		Reverse: true,
	})
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("kinetic live"))
	b.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Width(graphWidth),
			asciigraph.Height(graphHeight),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	v := m.value.Get()[0]
	vel := m.value.Velocity()[0]

	row := func(label, val string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(val))
		b.WriteString("\n")
	}
	row("value", fmt.Sprintf("%9.3f", v))
	row("velocity", fmt.Sprintf("%9.5f", vel))
	row("target", fmt.Sprintf("%9.3f", m.target))
	row("viewport", fmt.Sprintf("%9.3f", m.scalePos))
	row("rests", fmt.Sprintf("%d", m.counts.rests))

	state := "idle"
	switch {
	case m.value.IsPaused():
		state = pausedStyle.Render("paused")
	case m.value.IsAnimating():
		state = "animating"
	}
	row("state", state)

	b.WriteString(helpStyle.Render("t retarget · space pause · l loop · f finish · r reset · c cancel · q quit"))
	return b.String()
}
