package sim

import (
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
)

// Frame identifies one simulator tick.
type Frame struct {
	Index   int
	Time    float64 // accumulated wall-clock time
	Dt      float64
	Central dynamo.Vector3
}

type Metric interface {
	Name() string
	Observe(f Frame, sat *satellite.Satellite, tick satellite.Tick)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame, sat *satellite.Satellite, tick satellite.Tick)
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	Central       dynamo.Vector3
	CentralPath   func(t float64) dynamo.Vector3 // overrides Central when set
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		Duration:      10000,
		SampleEvery:   50,
		ValidateState: true,
	}
}

// Sample is one recorded satellite state.
type Sample struct {
	Frame     int
	Time      float64
	Satellite string
	Position  dynamo.Vector3
	Velocity  dynamo.Vector3
	Distance  float64
	Outcome   orbit.Outcome
}

type EventKind string

const (
	EventCrash  EventKind = "crash"
	EventEscape EventKind = "escape"
	EventReset  EventKind = "reset"
)

// Event marks a state change worth surfacing to the presentation layer.
// Escape events fire on the first step of an escaping streak only.
type Event struct {
	Frame     int
	Time      float64
	Satellite string
	Kind      EventKind
	Position  dynamo.Vector3
}

type Result struct {
	Samples []Sample
	Events  []Event
	Metrics map[string]float64
	Frames  int
	// SimTime is the integrated time actually applied to the physics.
	SimTime float64
}
