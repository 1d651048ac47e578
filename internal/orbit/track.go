package orbit

import (
	"math"

	"github.com/san-kum/orbsim/internal/dynamo"
)

// DefaultTrackSegments matches the resolution of the rendered orbit line.
const DefaultTrackSegments = 128

// Track samples the nominal circular orbit of the given radius as a closed
// loop of segments+1 points in the X-Z plane, rotated about X by
// inclination. The first and last points coincide.
func Track(radius, inclination float64, segments int) []dynamo.Vector3 {
	if segments < 3 {
		segments = 3
	}
	points := make([]dynamo.Vector3, segments+1)
	for i := 0; i <= segments; i++ {
		angle := float64(i) / float64(segments) * 2 * math.Pi
		sin, cos := math.Sincos(angle)
		points[i] = dynamo.Vec(cos*radius, 0, sin*radius).RotateX(inclination)
	}
	points[segments] = points[0]
	return points
}
