package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
)

func unitParams() orbit.Params {
	return orbit.Params{
		CentralBodyRadius:      0.1,
		GravitationalParameter: 1.0,
		CrashMargin:            0.01,
		EscapeCheckEnabled:     true,
	}
}

var _ = Describe("Step", func() {
	var (
		params  orbit.Params
		central dynamo.Vector3
	)

	BeforeEach(func() {
		params = unitParams()
		central = dynamo.Vector3{}
	})

	Describe("no-op steps", func() {
		DescribeTable("leave state unchanged",
			func(dt float64) {
				st := orbit.State{Position: dynamo.Vec(1, 2, 3), Velocity: dynamo.Vec(-1, 0.5, 0)}
				next, res := orbit.Step(st, central, dt, params, 1)
				Expect(next).To(Equal(st))
				Expect(res.Outcome).To(Equal(orbit.Nominal))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.25),
		)
	})

	Describe("crash classification", func() {
		DescribeTable("clamps to the boundary and stops",
			func(pos, center dynamo.Vector3) {
				st := orbit.State{Position: pos, Velocity: dynamo.Vec(0.3, -0.2, 0.1)}
				next, res := orbit.Step(st, center, 0.1, params, 1)

				Expect(res.Outcome).To(Equal(orbit.Crashed))
				Expect(res.ImpactPosition).To(Equal(pos))
				Expect(next.Velocity).To(Equal(dynamo.Vector3{}))
				Expect(next.IsFinite()).To(BeTrue())
				Expect(next.Position.DistanceTo(center)).To(BeNumerically("~", params.Boundary(), 1e-12))
			},
			Entry("inside body", dynamo.Vec(0.05, 0, 0), dynamo.Vector3{}),
			Entry("on boundary", dynamo.Vec(0, 0.11, 0), dynamo.Vector3{}),
			Entry("offset center", dynamo.Vec(5.02, 4.98, 5.0), dynamo.Vec(5, 5, 5)),
			Entry("coincident", dynamo.Vec(2, -1, 3), dynamo.Vec(2, -1, 3)),
		)

		It("parks along the approach direction", func() {
			st := orbit.State{Position: dynamo.Vec(0, 0, 0.05)}
			next, _ := orbit.Step(st, central, 0.1, params, 1)
			Expect(next.Position.X).To(BeNumerically("~", 0, 1e-12))
			Expect(next.Position.Z).To(BeNumerically("~", params.Boundary(), 1e-12))
		})
	})

	Describe("escape classification", func() {
		It("flags escaping and keeps integrating outward", func() {
			st := orbit.State{Position: dynamo.Vec(1, 0, 0), Velocity: dynamo.Vec(1.0, 0, 1.5)}
			Expect(st.Velocity.Length()).To(BeNumerically(">", orbit.EscapeVelocity(1, 1)))

			next, res := orbit.Step(st, central, 0.1, params, 1)
			Expect(res.Outcome).To(Equal(orbit.Escaping))
			Expect(next.Position).NotTo(Equal(st.Position))

			prev := next.Position.Length()
			increases := 0
			const steps = 200
			st = next
			for i := 0; i < steps; i++ {
				st, _ = orbit.Step(st, central, 0.1, params, 1)
				d := st.Position.Length()
				if d > prev {
					increases++
				}
				prev = d
			}
			Expect(increases).To(BeNumerically(">=", steps*95/100))
			Expect(prev).To(BeNumerically(">", 1.1))
		})

		It("accounts for the time scale", func() {
			st := orbit.State{Position: dynamo.Vec(1, 0, 0), Velocity: dynamo.Vec(0, 0, 1.0)}
			_, res := orbit.Step(st, central, 0.1, params, 1)
			Expect(res.Outcome).To(Equal(orbit.Nominal))

			_, res = orbit.Step(st, central, 0.1, params, 1.5)
			Expect(res.Outcome).To(Equal(orbit.Escaping))
		})

		It("is silent when disabled", func() {
			params.EscapeCheckEnabled = false
			st := orbit.State{Position: dynamo.Vec(1, 0, 0), Velocity: dynamo.Vec(0, 0, 5)}
			_, res := orbit.Step(st, central, 0.1, params, 1)
			Expect(res.Outcome).To(Equal(orbit.Nominal))
		})
	})

	Describe("integration", func() {
		It("returns to the start after one revolution", func() {
			st, err := orbit.InitializeOrbit(1.0, 0, 1.0)
			Expect(err).NotTo(HaveOccurred())
			start := st.Position

			h := orbit.SubStep(0.01)
			steps := int(math.Round(2 * math.Pi / h))
			for i := 0; i < steps; i++ {
				var res orbit.StepResult
				st, res = orbit.Step(st, central, 0.01, params, 1)
				Expect(res.Outcome).To(Equal(orbit.Nominal))
			}
			Expect(st.Position.DistanceTo(start)).To(BeNumerically("<", 0.02))
			Expect(st.Position.Length()).To(BeNumerically("~", 1.0, 0.01))
		})

		It("scales translation but not the force law", func() {
			st := orbit.State{Position: dynamo.Vec(1, 0, 0), Velocity: dynamo.Vec(0, 0, 0.5)}
			a, _ := orbit.Step(st, central, 0.1, params, 1)
			b, _ := orbit.Step(st, central, 0.1, params, 2)

			Expect(b.Velocity).To(Equal(a.Velocity))
			da := a.Position.Sub(st.Position)
			db := b.Position.Sub(st.Position)
			Expect(db.X).To(BeNumerically("~", 2*da.X, 1e-15))
			Expect(db.Z).To(BeNumerically("~", 2*da.Z, 1e-15))
		})

		It("translates with the velocity held before the kick", func() {
			st := orbit.State{Position: dynamo.Vec(1, 0, 0), Velocity: dynamo.Vec(0, 0, 1)}
			next, res := orbit.Step(st, central, 0.1, params, 1)
			Expect(res.Outcome).To(Equal(orbit.Nominal))

			Expect(next.Position.X).To(BeNumerically("~", 1, 1e-15))
			Expect(next.Position.Y).To(BeNumerically("~", 0, 1e-15))
			Expect(next.Position.Z).To(BeNumerically("~", 0.001, 1e-15))
			Expect(next.Velocity.X).To(BeNumerically("~", -0.001, 1e-15))
			Expect(next.Velocity.Z).To(BeNumerically("~", 1, 1e-15))
		})

		It("accelerates toward a displaced central body", func() {
			center := dynamo.Vec(10, 0, 0)
			st := orbit.State{Position: dynamo.Vec(8, 0, 0)}
			next, res := orbit.Step(st, center, 0.1, params, 1)
			Expect(res.Outcome).To(Equal(orbit.Nominal))
			Expect(next.Velocity.X).To(BeNumerically("~", 0.25*orbit.SubStep(0.1), 1e-15))
			Expect(next.Position).To(Equal(st.Position))

			next, _ = orbit.Step(next, center, 0.1, params, 1)
			Expect(next.Position.X).To(BeNumerically(">", 8))
		})

		It("accepts out-of-range time scales", func() {
			st := orbit.State{Position: dynamo.Vec(1, 0, 0), Velocity: dynamo.Vec(0, 0, 0.1)}
			for _, ts := range []float64{0, 0.01, 10} {
				next, _ := orbit.Step(st, central, 0.1, params, ts)
				Expect(next.IsFinite()).To(BeTrue())
			}
		})
	})

	Describe("SubStep", func() {
		It("scales and caps the wall-clock delta", func() {
			Expect(orbit.SubStep(0.1)).To(BeNumerically("~", 0.001, 1e-15))
			Expect(orbit.SubStep(10)).To(Equal(orbit.MaxSubStep))
		})
	})
})

var _ = Describe("Outcome", func() {
	It("names each classification", func() {
		Expect(orbit.Nominal.String()).To(Equal("nominal"))
		Expect(orbit.Crashed.String()).To(Equal("crashed"))
		Expect(orbit.Escaping.String()).To(Equal("escaping"))
	})
})

var _ = Describe("Params", func() {
	It("validates bounds", func() {
		Expect(orbit.DefaultParams().Validate()).To(Succeed())

		p := orbit.DefaultParams()
		p.GravitationalParameter = 0
		Expect(p.Validate()).To(MatchError(dynamo.ErrParameterBounds))

		p = orbit.DefaultParams()
		p.CrashMargin = -1
		Expect(p.Validate()).To(MatchError(dynamo.ErrParameterBounds))
	})
})
