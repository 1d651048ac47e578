// Package orbit advances a satellite around a single central body.
//
// The package is pure arithmetic: it performs no I/O, holds no state
// between calls and never logs. Callers own one [State] per satellite and
// feed it back into [Step] every frame together with the central body's
// current position:
//
//	st, _ := orbit.InitializeOrbit(radius, inclination, mu)
//	for alive {
//	    var res orbit.StepResult
//	    st, res = orbit.Step(st, earth, dt, params, timeScale)
//	    if res.Outcome == orbit.Crashed { ... }
//	}
//
// Crash and escape are reported through [StepResult], never as errors.
// Only orbit setup with a non-positive radius fails, with
// [dynamo.ErrInvalidRadius].
package orbit
