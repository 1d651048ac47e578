// Package dynamo provides the core primitives shared by the orbital
// simulation packages.
//
//   - [Vector3]: immutable three-component vector used for positions and velocities
//   - domain errors ([ErrInvalidRadius], [ErrInvalidState], ...)
//   - [ParallelFor]: chunked fan-out used to step independent satellites
//
// # Example
//
//	p := dynamo.Vec(1, 0, 0)
//	v := dynamo.Vec(0, 0, 1e-3)
//	fmt.Println(p.Dot(v)) // 0
//
// # Thread Safety
//
// [Vector3] is a value type and safe to share. [ParallelFor] callers must
// ensure that the index ranges they hand out touch disjoint data.
package dynamo
