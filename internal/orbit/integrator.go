package orbit

import (
	"fmt"
	"math"

	"github.com/san-kum/orbsim/internal/dynamo"
)

// State is one satellite's position and velocity relative to the world
// origin.
type State struct {
	Position dynamo.Vector3
	Velocity dynamo.Vector3
}

// IsFinite reports whether every position and velocity component is finite.
func (s State) IsFinite() bool {
	return s.Position.IsFinite() && s.Velocity.IsFinite()
}

// Params is the per-satellite force and boundary configuration.
type Params struct {
	CentralBodyRadius      float64
	GravitationalParameter float64
	CrashMargin            float64
	EscapeCheckEnabled     bool
}

// DefaultParams returns Earth parameters with escape checking on.
func DefaultParams() Params {
	return Params{
		CentralBodyRadius:      EarthRadius,
		GravitationalParameter: GravitationalParameter,
		CrashMargin:            DefaultCrashMargin,
		EscapeCheckEnabled:     true,
	}
}

// Boundary is the collision radius, CentralBodyRadius + CrashMargin.
func (p Params) Boundary() float64 {
	return p.CentralBodyRadius + p.CrashMargin
}

// Validate rejects negative radii or margins and non-positive mu.
func (p Params) Validate() error {
	switch {
	case !(p.CentralBodyRadius >= 0):
		return fmt.Errorf("%w: central body radius %g", dynamo.ErrParameterBounds, p.CentralBodyRadius)
	case !(p.GravitationalParameter > 0):
		return fmt.Errorf("%w: gravitational parameter %g", dynamo.ErrParameterBounds, p.GravitationalParameter)
	case !(p.CrashMargin >= 0):
		return fmt.Errorf("%w: crash margin %g", dynamo.ErrParameterBounds, p.CrashMargin)
	}
	return nil
}

// Outcome classifies a single integration step.
type Outcome int

const (
	Nominal Outcome = iota
	Crashed
	Escaping
)

func (o Outcome) String() string {
	switch o {
	case Nominal:
		return "nominal"
	case Crashed:
		return "crashed"
	case Escaping:
		return "escaping"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range []Outcome{Nominal, Crashed, Escaping} {
		if o.String() == s {
			return o, nil
		}
	}
	return Nominal, fmt.Errorf("unknown outcome %q", s)
}

// StepResult is produced once per Step. ImpactPosition is the satellite
// position at the moment contact was detected and is only meaningful when
// Outcome is Crashed.
type StepResult struct {
	Outcome        Outcome
	ImpactPosition dynamo.Vector3
}

// SubStep maps elapsed wall-clock time to the integration step actually
// taken: deltaTime*DeltaScale, capped at MaxSubStep.
func SubStep(deltaTime float64) float64 {
	return math.Min(deltaTime*DeltaScale, MaxSubStep)
}

// EscapeVelocity returns sqrt(2 mu / distance).
func EscapeVelocity(gravitationalParameter, distance float64) float64 {
	return math.Sqrt(2 * gravitationalParameter / distance)
}

// Step advances s by one Euler step under inverse-square
// gravity toward central. Boundary checks run before integration:
//
//   - deltaTime <= 0 returns s unchanged and Nominal.
//   - distance <= Boundary() zeroes velocity, parks the satellite on the
//     boundary along its approach line and returns Crashed.
//   - |v|*timeScale above escape velocity flags Escaping; integration
//     still proceeds.
//
// Translation uses the velocity from before this step's acceleration,
// scaled by timeScale; acceleration accumulates into the unscaled velocity.
// Out-of-range time scales are not rejected here.
func Step(s State, central dynamo.Vector3, deltaTime float64, p Params, timeScale float64) (State, StepResult) {
	if !(deltaTime > 0) {
		return s, StepResult{Outcome: Nominal}
	}

	toCentral := central.Sub(s.Position)
	distance := toCentral.Length()

	if distance <= p.Boundary() {
		return crash(s, central, toCentral, p)
	}

	result := StepResult{Outcome: Nominal}
	if p.EscapeCheckEnabled && s.Velocity.Length()*timeScale > EscapeVelocity(p.GravitationalParameter, distance) {
		result.Outcome = Escaping
	}

	h := SubStep(deltaTime)
	accel := toCentral.Normalize().Scale(p.GravitationalParameter / (distance * distance))

	next := State{
		Position: s.Position.Add(s.Velocity.Scale(timeScale * h)),
		Velocity: s.Velocity.Add(accel.Scale(h)),
	}

	return next, result
}

func crash(s State, central, toCentral dynamo.Vector3, p Params) (State, StepResult) {
	boundary := p.Boundary()

	// A satellite sitting on the center has no approach direction; park it on +X.
	outward := dynamo.Vec(1, 0, 0)
	if !toCentral.IsZero() {
		outward = toCentral.Normalize().Scale(-1)
	}

	next := State{
		Position: central.Add(outward.Scale(boundary)),
		Velocity: dynamo.Vector3{},
	}
	return next, StepResult{Outcome: Crashed, ImpactPosition: s.Position}
}
