package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a three-component real vector. Operations return new values
// and never mutate the receiver.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Vec is shorthand for Vector3{x, y, z}.
func Vec(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) vec() r3.Vec           { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
func fromR3(p r3.Vec) Vector3           { return Vector3{X: p.X, Y: p.Y, Z: p.Z} }
func (v Vector3) Add(o Vector3) Vector3 { return fromR3(r3.Add(v.vec(), o.vec())) }
func (v Vector3) Sub(o Vector3) Vector3 { return fromR3(r3.Sub(v.vec(), o.vec())) }
func (v Vector3) Scale(f float64) Vector3 {
	return fromR3(r3.Scale(f, v.vec()))
}
func (v Vector3) Dot(o Vector3) float64   { return r3.Dot(v.vec(), o.vec()) }
func (v Vector3) Cross(o Vector3) Vector3 { return fromR3(r3.Cross(v.vec(), o.vec())) }
func (v Vector3) Length() float64         { return r3.Norm(v.vec()) }

// Normalize returns the unit vector in the direction of v. The zero vector
// has no direction and is returned unchanged.
func (v Vector3) Normalize() Vector3 {
	if v.IsZero() {
		return v
	}
	return fromR3(r3.Unit(v.vec()))
}

// RotateX rotates v about the X axis by angle radians (right-handed).
func (v Vector3) RotateX(angle float64) Vector3 {
	if angle == 0 {
		return v
	}
	return fromR3(r3.Rotate(v.vec(), angle, r3.Vec{X: 1}))
}

// DistanceTo returns |o - v|.
func (v Vector3) DistanceTo(o Vector3) float64 { return o.Sub(v).Length() }

func (v Vector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", v.X, v.Y, v.Z)
}
