package metrics

import (
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

// EventCount counts ticks matching a predicate.
type EventCount struct {
	name  string
	match func(satellite.Tick) bool
	count int
}

// NewCrashCount counts crashes, once per impact.
func NewCrashCount() *EventCount {
	return &EventCount{name: "crashes", match: func(t satellite.Tick) bool {
		return t.Result.Outcome == orbit.Crashed && !t.Frozen
	}}
}

// NewEscapeSteps counts every step flagged as escaping.
func NewEscapeSteps() *EventCount {
	return &EventCount{name: "escape_steps", match: func(t satellite.Tick) bool {
		return t.Result.Outcome == orbit.Escaping
	}}
}

func NewResetCount() *EventCount {
	return &EventCount{name: "resets", match: func(t satellite.Tick) bool { return t.Reset }}
}

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) Observe(_ sim.Frame, _ *satellite.Satellite, tick satellite.Tick) {
	if c.match(tick) {
		c.count++
	}
}

func (c *EventCount) Value() float64 { return float64(c.count) }
func (c *EventCount) Reset()         { c.count = 0 }

// Default returns the metric set recorded for every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewRadiusSpread(),
		NewCrashCount(),
		NewEscapeSteps(),
		NewResetCount(),
	}
}
