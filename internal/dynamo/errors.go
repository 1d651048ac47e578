package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for orbital simulation.
var (
	// ErrInvalidRadius indicates a non-positive orbit radius at setup time.
	ErrInvalidRadius = errors.New("dynamo: orbit radius must be positive")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownPreset indicates a scenario preset that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// SimulationError wraps an error with the frame and satellite it occurred on.
type SimulationError struct {
	Step      int
	Time      float64
	Satellite string
	Wrapped   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) %s: %v", e.Step, e.Time, e.Satellite, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
