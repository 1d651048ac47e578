// Package satellite wraps an orbital state with the lifecycle and user
// controls of a single simulated satellite.
package satellite

import (
	"fmt"
	"math"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
)

// DefaultResetDistanceFactor is how many central-body radii a satellite may
// drift before its orbit is re-seeded.
const DefaultResetDistanceFactor = 50.0

type Status int

const (
	Orbiting Status = iota
	Crashed
)

func (s Status) String() string {
	if s == Crashed {
		return "crashed"
	}
	return "orbiting"
}

// Options configures a Satellite beyond its orbit geometry.
type Options struct {
	Params              orbit.Params
	Center              dynamo.Vector3
	TimeScale           float64
	ResetDistanceFactor float64 // 0 disables automatic resets
}

func DefaultOptions() Options {
	return Options{
		Params:              orbit.DefaultParams(),
		TimeScale:           1.0,
		ResetDistanceFactor: DefaultResetDistanceFactor,
	}
}

// Satellite owns exactly one orbit.State. It is not safe for concurrent
// use; distinct satellites may be advanced concurrently.
type Satellite struct {
	Name          string
	Altitude      float64
	Inclination   float64
	OrbitRadius   float64
	RequiredSpeed float64

	params      orbit.Params
	center      dynamo.Vector3
	timeScale   float64
	resetFactor float64
	state       orbit.State
	status      Status
}

// Tick reports what happened to a satellite during one Advance call.
// Frozen is set when the satellite had already crashed and did not move.
type Tick struct {
	Result orbit.StepResult
	Reset  bool
	Frozen bool
}

// New builds a satellite on a circular orbit altitude above the central
// body's surface.
func New(name string, altitude, inclination float64, opts Options) (*Satellite, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("satellite %s: %w", name, err)
	}
	s := &Satellite{
		Name:        name,
		Altitude:    altitude,
		Inclination: inclination,
		OrbitRadius: opts.Params.CentralBodyRadius + altitude,
		params:      opts.Params,
		center:      opts.Center,
		timeScale:   ClampTimeScale(opts.TimeScale),
		resetFactor: opts.ResetDistanceFactor,
	}
	if err := s.Reset(); err != nil {
		return nil, fmt.Errorf("satellite %s: %w", name, err)
	}
	return s, nil
}

// Reset re-seeds the circular orbit around the last known central body
// position and revives a crashed satellite.
func (s *Satellite) Reset() error {
	st, err := orbit.InitializeOrbit(s.OrbitRadius, s.Inclination, s.params.GravitationalParameter)
	if err != nil {
		return err
	}
	speed, err := orbit.CircularVelocity(s.OrbitRadius, s.params.GravitationalParameter)
	if err != nil {
		return err
	}
	st.Position = st.Position.Add(s.center)
	s.state = st
	s.RequiredSpeed = speed
	s.status = Orbiting
	return nil
}

// Advance steps the satellite by deltaTime toward a central body at
// central. Crashed satellites do not move. A satellite that has wandered
// beyond the reset distance is re-seeded instead of stepped.
func (s *Satellite) Advance(deltaTime float64, central dynamo.Vector3) Tick {
	if s.status == Crashed {
		return Tick{Result: orbit.StepResult{Outcome: orbit.Crashed, ImpactPosition: s.state.Position}, Frozen: true}
	}

	s.center = central
	if limit := s.resetFactor * s.params.CentralBodyRadius; limit > 0 && s.state.Position.DistanceTo(central) > limit {
		// OrbitRadius was validated in New.
		_ = s.Reset()
		return Tick{Reset: true}
	}

	next, res := orbit.Step(s.state, central, deltaTime, s.params, s.timeScale)
	s.state = next
	if res.Outcome == orbit.Crashed {
		s.status = Crashed
	}
	return Tick{Result: res}
}

// ClampTimeScale bounds a user-supplied speed factor to the supported range.
func ClampTimeScale(v float64) float64 {
	if math.IsNaN(v) {
		return 1.0
	}
	return math.Max(orbit.MinTimeScale, math.Min(orbit.MaxTimeScale, v))
}

func (s *Satellite) SetTimeScale(v float64) { s.timeScale = ClampTimeScale(v) }
func (s *Satellite) TimeScale() float64     { return s.timeScale }
func (s *Satellite) State() orbit.State     { return s.state }
func (s *Satellite) Status() Status         { return s.status }
func (s *Satellite) Params() orbit.Params   { return s.params }

// Info is a read-only summary for display.
type Info struct {
	Name     string  `json:"name"`
	Altitude float64 `json:"altitude"`
	Speed    float64 `json:"speed"`
	Distance float64 `json:"distance"`
	Status   string  `json:"status"`
}

// Info reports altitude and distance relative to central.
func (s *Satellite) Info(central dynamo.Vector3) Info {
	distance := s.state.Position.DistanceTo(central)
	return Info{
		Name:     s.Name,
		Altitude: distance - s.params.CentralBodyRadius,
		Speed:    s.state.Velocity.Length(),
		Distance: distance,
		Status:   s.status.String(),
	}
}
