package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/logging"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

func newLive(t *testing.T, n int) LiveModel {
	t.Helper()
	sats := make([]*satellite.Satellite, n)
	for i := range sats {
		sat, err := satellite.New(string(rune('a'+i)), orbit.MEOAltitude, 0, satellite.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		sats[i] = sat
	}
	s := sim.New(sats, logging.Noop())
	return NewLiveModel(context.Background(), s, dynamo.Vector3{}, 1, 2)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m LiveModel, msg tea.Msg) (LiveModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	lm, ok := next.(LiveModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return lm, cmd
}

func TestLiveTickSteps(t *testing.T) {
	m := newLive(t, 1)
	start := m.sats[0].State().Position

	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.frame != 2 {
		t.Errorf("frame = %d, want 2 (two steps per tick)", m.frame)
	}
	if m.sats[0].State().Position == start {
		t.Error("satellite did not move")
	}
	if len(m.history[0]) != 2 {
		t.Errorf("history length = %d", len(m.history[0]))
	}
}

func TestLivePause(t *testing.T) {
	m := newLive(t, 1)
	m, _ = update(t, m, key(" "))
	if m.running {
		t.Fatal("space should pause")
	}
	m, _ = update(t, m, TickMsg{})
	if m.frame != 0 {
		t.Error("paused model should not step")
	}
	m, _ = update(t, m, key(" "))
	if !m.running {
		t.Error("space should resume")
	}
}

func TestLiveSelectAndTimeScale(t *testing.T) {
	m := newLive(t, 3)
	m, _ = update(t, m, key("tab"))
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, key("+"))
	}
	if got := m.sats[1].TimeScale(); got != 1.5 {
		t.Errorf("time scale = %v, want 1.5", got)
	}
	if m.sats[0].TimeScale() != 1 {
		t.Error("unselected satellite changed")
	}

	for i := 0; i < 30; i++ {
		m, _ = update(t, m, key("-"))
	}
	if got := m.sats[1].TimeScale(); got != orbit.MinTimeScale {
		t.Errorf("time scale = %v, want clamp at %v", got, orbit.MinTimeScale)
	}

	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("tab"))
	if m.selected != 0 {
		t.Errorf("selection should wrap, got %d", m.selected)
	}
}

func TestLiveResetRevivesCrashed(t *testing.T) {
	m := newLive(t, 1)
	sat := m.sats[0]
	sat.Advance(1, sat.State().Position) // central body on top of the satellite
	if sat.Status() != satellite.Crashed {
		t.Fatal("setup: expected crash")
	}

	m, _ = update(t, m, key("r"))
	if sat.Status() != satellite.Orbiting {
		t.Error("r should reset the selected orbit")
	}
	if !strings.Contains(m.lastEvent, "reset") {
		t.Errorf("last event = %q", m.lastEvent)
	}
}

func TestLiveQuit(t *testing.T) {
	m := newLive(t, 1)
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLiveView(t *testing.T) {
	m := newLive(t, 2)
	m, _ = update(t, m, TickMsg{})
	out := m.View()
	for _, want := range []string{"ORBSIM", "RUNNING", "ORBITING", "a", "b"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
