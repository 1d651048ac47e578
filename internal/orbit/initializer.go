package orbit

import (
	"fmt"
	"math"

	"github.com/san-kum/orbsim/internal/dynamo"
)

// CircularVelocity returns the speed of a circular orbit of the given
// radius, sqrt(mu / r).
func CircularVelocity(orbitRadius, gravitationalParameter float64) (float64, error) {
	if !(orbitRadius > 0) {
		return 0, fmt.Errorf("%w: got %g", dynamo.ErrInvalidRadius, orbitRadius)
	}
	return math.Sqrt(gravitationalParameter / orbitRadius), nil
}

// InitializeOrbit seeds a circular orbit: position on +X, velocity on +Z,
// both rotated about X by inclination.
func InitializeOrbit(orbitRadius, inclination, gravitationalParameter float64) (State, error) {
	speed, err := CircularVelocity(orbitRadius, gravitationalParameter)
	if err != nil {
		return State{}, err
	}

	st := State{
		Position: dynamo.Vec(orbitRadius, 0, 0),
		Velocity: dynamo.Vec(0, 0, speed),
	}
	if inclination != 0 {
		st.Position = st.Position.RotateX(inclination)
		st.Velocity = st.Velocity.RotateX(inclination)
	}
	return st, nil
}

// RequiredSpeedForAltitude returns the circular speed at the distance of
// position from the origin.
func RequiredSpeedForAltitude(position dynamo.Vector3, gravitationalParameter float64) (float64, error) {
	return CircularVelocity(position.Length(), gravitationalParameter)
}

// SpeedFactorForOrbit returns the multiplier that turns the current speed
// into targetSpeed. A stationary satellite yields 1.
func SpeedFactorForOrbit(currentVelocity dynamo.Vector3, targetSpeed float64) float64 {
	speed := currentVelocity.Length()
	if speed == 0 {
		return 1.0
	}
	return targetSpeed / speed
}
