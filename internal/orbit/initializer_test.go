package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
)

var _ = Describe("CircularVelocity", func() {
	It("returns sqrt(mu/r)", func() {
		v, err := orbit.CircularVelocity(1.0, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 1e-3, 1e-15))

		v, err = orbit.CircularVelocity(4.0, 16.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 2.0, 1e-12))
	})

	DescribeTable("rejects non-positive radii",
		func(radius float64) {
			_, err := orbit.CircularVelocity(radius, 1.0)
			Expect(err).To(MatchError(dynamo.ErrInvalidRadius))
		},
		Entry("zero", 0.0),
		Entry("negative", -1.0),
		Entry("NaN", math.NaN()),
	)
})

var _ = Describe("InitializeOrbit", func() {
	It("seeds the documented circular state", func() {
		st, err := orbit.InitializeOrbit(1.0, 0, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Position).To(Equal(dynamo.Vec(1, 0, 0)))
		Expect(st.Velocity.X).To(BeZero())
		Expect(st.Velocity.Y).To(BeZero())
		Expect(st.Velocity.Z).To(BeNumerically("~", 1e-3, 1e-15))
	})

	It("surfaces InvalidRadius", func() {
		_, err := orbit.InitializeOrbit(-0.5, 0.3, 1.0)
		Expect(err).To(MatchError(dynamo.ErrInvalidRadius))
	})

	DescribeTable("yields a perpendicular state with circular speed",
		func(radius, inclination, mu float64) {
			st, err := orbit.InitializeOrbit(radius, inclination, mu)
			Expect(err).NotTo(HaveOccurred())

			want := math.Sqrt(mu / radius)
			Expect(st.Velocity.Length()).To(BeNumerically("~", want, want*1e-9))
			Expect(st.Position.Length()).To(BeNumerically("~", radius, radius*1e-9))

			scale := st.Position.Length() * st.Velocity.Length()
			Expect(math.Abs(st.Position.Dot(st.Velocity))).To(BeNumerically("<=", scale*1e-9))
		},
		Entry("unit orbit", 1.0, 0.0, 1.0),
		Entry("leo", orbit.EarthRadius+0.0055, 0.0, orbit.GravitationalParameter),
		Entry("inclined meo", orbit.EarthRadius+orbit.MEOAltitude, 0.9, orbit.GravitationalParameter),
		Entry("polar", 7.0, math.Pi/2, 398600.4418),
		Entry("retrograde", 0.5, 2.8, 3.0),
		Entry("negative inclination", 2.0, -0.4, 1e-3),
	)

	It("tilts velocity out of the equatorial plane", func() {
		st, err := orbit.InitializeOrbit(1.0, math.Pi/2, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Abs(st.Velocity.Y)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(st.Velocity.Z).To(BeNumerically("~", 0, 1e-12))
	})
})

var _ = Describe("speed helpers", func() {
	It("computes required speed at the current distance", func() {
		v, err := orbit.RequiredSpeedForAltitude(dynamo.Vec(0, 3, 4), 5.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("fails at the origin", func() {
		_, err := orbit.RequiredSpeedForAltitude(dynamo.Vector3{}, 5.0)
		Expect(err).To(MatchError(dynamo.ErrInvalidRadius))
	})

	It("derives a speed factor", func() {
		Expect(orbit.SpeedFactorForOrbit(dynamo.Vec(0, 0, 2), 3)).To(BeNumerically("~", 1.5, 1e-12))
		Expect(orbit.SpeedFactorForOrbit(dynamo.Vector3{}, 3)).To(Equal(1.0))
	})
})
