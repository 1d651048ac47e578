package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/logging"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

func runMEO(t *testing.T, frames int, ms ...sim.Metric) {
	t.Helper()
	sat, err := satellite.New("meo", orbit.MEOAltitude, 0.3, satellite.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	s := sim.New([]*satellite.Satellite{sat}, logging.Noop())
	for _, m := range ms {
		s.AddMetric(m)
	}
	cfg := sim.DefaultConfig()
	cfg.Duration = float64(frames)
	if _, err := s.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
}

func TestSpecificEnergyCircular(t *testing.T) {
	st, err := orbit.InitializeOrbit(1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	// circular orbit: E = -mu / 2r
	e := SpecificEnergy(st, orbit.State{}, 1)
	if math.Abs(e+0.5) > 1e-12 {
		t.Errorf("energy = %v, want -0.5", e)
	}
}

func TestEnergyDriftStableOrbit(t *testing.T) {
	m := NewEnergyDrift()
	runMEO(t, 2000, m)

	if m.Value() <= 0 {
		t.Errorf("expected some drift to be measured, got %v", m.Value())
	}
	if m.Value() > 0.01 {
		t.Errorf("energy drift = %v, too large for a closed orbit", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("reset did not clear drift")
	}
}

func TestRadiusSpreadStableOrbit(t *testing.T) {
	m := NewRadiusSpread()
	if m.Value() != 0 {
		t.Errorf("empty spread = %v", m.Value())
	}
	runMEO(t, 2000, m)

	if m.Value() > 0.01 {
		t.Errorf("radius spread = %v, orbit is not circular", m.Value())
	}
}

func TestEventCounts(t *testing.T) {
	crash := satellite.Tick{Result: orbit.StepResult{Outcome: orbit.Crashed}}
	frozen := satellite.Tick{Result: orbit.StepResult{Outcome: orbit.Crashed}, Frozen: true}
	escape := satellite.Tick{Result: orbit.StepResult{Outcome: orbit.Escaping}}
	reset := satellite.Tick{Reset: true}

	ticks := []satellite.Tick{crash, frozen, frozen, escape, escape, reset, {}}

	tests := []struct {
		metric *EventCount
		want   float64
	}{
		{NewCrashCount(), 1},
		{NewEscapeSteps(), 2},
		{NewResetCount(), 1},
	}
	for _, tt := range tests {
		for _, tick := range ticks {
			tt.metric.Observe(sim.Frame{Central: dynamo.Vector3{}}, nil, tick)
		}
		if got := tt.metric.Value(); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.metric.Name(), got, tt.want)
		}
		tt.metric.Reset()
		if tt.metric.Value() != 0 {
			t.Errorf("%s not cleared by Reset", tt.metric.Name())
		}
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("got %d metrics, want 5", len(seen))
	}
}
