package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 300
	timeScaleStep   = 0.1
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

// LiveModel steps a fleet once per frame and draws it top-down.
type LiveModel struct {
	ctx     context.Context
	sim     *sim.Simulator
	sats    []*satellite.Satellite
	tracks  [][]dynamo.Vector3
	central dynamo.Vector3
	radius  float64

	dt           float64
	stepsPerTick int
	frame        int
	t            float64

	running   bool
	selected  int
	outcomes  []orbit.Outcome
	history   [][]float64
	lastEvent string

	canvas   *Canvas
	viewport Viewport
}

// NewLiveModel wraps a simulator whose satellites orbit a body at central.
// Each UI tick advances stepsPerTick frames of dt.
func NewLiveModel(ctx context.Context, s *sim.Simulator, central dynamo.Vector3, dt float64, stepsPerTick int) LiveModel {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	sats := s.Satellites()
	m := LiveModel{
		ctx:          ctx,
		sim:          s,
		sats:         sats,
		tracks:       make([][]dynamo.Vector3, len(sats)),
		central:      central,
		dt:           dt,
		stepsPerTick: stepsPerTick,
		running:      true,
		outcomes:     make([]orbit.Outcome, len(sats)),
		history:      make([][]float64, len(sats)),
		canvas:       NewCanvas(width, height),
	}

	extent := 0.0
	for i, sat := range sats {
		m.tracks[i] = orbit.Track(sat.OrbitRadius, sat.Inclination, orbit.DefaultTrackSegments)
		m.radius = sat.Params().CentralBodyRadius
		extent = math.Max(extent, sat.OrbitRadius)
	}
	m.viewport = Viewport{Canvas: m.canvas, CX: central.X, CZ: central.Z, Extent: extent * 1.15}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			if len(m.sats) > 0 {
				m.selected = (m.selected + 1) % len(m.sats)
			}
		case "+", "=":
			m.adjustTimeScale(timeScaleStep)
		case "-", "_":
			m.adjustTimeScale(-timeScaleStep)
		case "r":
			m.resetSelected()
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) adjustTimeScale(delta float64) {
	if sat := m.current(); sat != nil {
		// round away float accumulation so 10 presses of +0.1 land on 2.0
		sat.SetTimeScale(math.Round((sat.TimeScale()+delta)*10) / 10)
	}
}

func (m *LiveModel) resetSelected() {
	sat := m.current()
	if sat == nil {
		return
	}
	if err := sat.Reset(); err != nil {
		m.lastEvent = fmt.Sprintf("%s: reset failed: %v", sat.Name, err)
		return
	}
	m.outcomes[m.selected] = orbit.Nominal
	m.history[m.selected] = m.history[m.selected][:0]
	m.lastEvent = fmt.Sprintf("%s: orbit reset", sat.Name)
}

func (m *LiveModel) current() *satellite.Satellite {
	if m.selected < 0 || m.selected >= len(m.sats) {
		return nil
	}
	return m.sats[m.selected]
}

func (m *LiveModel) step() {
	m.frame++
	m.t += m.dt
	ticks := m.sim.Step(m.ctx, sim.Frame{Index: m.frame, Time: m.t, Dt: m.dt, Central: m.central})

	for i, sat := range m.sats {
		if ticks[i].Reset {
			m.outcomes[i] = orbit.Nominal
		} else {
			m.outcomes[i] = ticks[i].Result.Outcome
		}
		h := append(m.history[i], sat.State().Position.DistanceTo(m.central))
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[i] = h
	}
	for _, ev := range m.sim.Events() {
		m.lastEvent = fmt.Sprintf("t=%.1f %s: %s", ev.Time, ev.Satellite, ev.Kind)
	}
}

func (m LiveModel) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("ORBSIM") + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.frame)) + "\n\n")

	for i, sat := range m.sats {
		info := sat.Info(m.central)
		line := fmt.Sprintf("%-8s %s alt %.4f v %.5f", info.Name, statusBadge(sat.Status(), m.outcomes[i]), info.Altitude, info.Speed)
		if i == m.selected {
			s.WriteString(selectedStyle.Render("> ") + line + "\n")
			s.WriteString("  " + labelStyle.Render("speed") + ScaleBar(sat.TimeScale(), 10) +
				valueStyle.Render(fmt.Sprintf(" x%.1f", sat.TimeScale())) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if m.selected < len(m.history) && len(m.history[m.selected]) > 1 {
		chart := asciigraph.Plot(m.history[m.selected], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Distance"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.lastEvent != "" {
		s.WriteString("\n" + labelStyle.Render("Last event") + valueStyle.Render(m.lastEvent) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause TAB:Select +/-:Speed\nR:Reset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	v := m.viewport

	cx, cy := v.Project(m.central.X, m.central.Z)
	m.canvas.DrawCircle(cx, cy, v.Pixels(m.radius))

	for i, sat := range m.sats {
		if sat.Status() != satellite.Crashed {
			v.Polyline(offsetTrack(m.tracks[i], m.central))
		}
		p := sat.State().Position
		px, py := v.Project(p.X, p.Z)
		m.canvas.Set(px, py)
		m.canvas.Set(px+1, py)
		m.canvas.Set(px, py+1)
		m.canvas.Set(px+1, py+1)
		if i == m.selected {
			m.canvas.DrawCircle(px, py, 3)
		}
	}
}

func offsetTrack(track []dynamo.Vector3, center dynamo.Vector3) []dynamo.Vector3 {
	if center.IsZero() {
		return track
	}
	out := make([]dynamo.Vector3, len(track))
	for i, p := range track {
		out[i] = p.Add(center)
	}
	return out
}

// RunLive starts the live view in the alternate screen.
func RunLive(ctx context.Context, s *sim.Simulator, central dynamo.Vector3, dt float64, stepsPerTick int) error {
	_, err := tea.NewProgram(NewLiveModel(ctx, s, central, dt, stepsPerTick), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
