package orbit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbsim/internal/orbit"
)

var _ = Describe("Track", func() {
	It("samples a closed loop at the orbit radius", func() {
		pts := orbit.Track(2.0, 0.4, 64)
		Expect(pts).To(HaveLen(65))
		Expect(pts[0]).To(Equal(pts[64]))
		for _, p := range pts {
			Expect(p.Length()).To(BeNumerically("~", 2.0, 1e-12))
		}
	})

	It("starts where InitializeOrbit places the satellite", func() {
		st, err := orbit.InitializeOrbit(2.0, 0.4, 1.0)
		Expect(err).NotTo(HaveOccurred())
		pts := orbit.Track(2.0, 0.4, orbit.DefaultTrackSegments)
		Expect(pts[0].DistanceTo(st.Position)).To(BeNumerically("<", 1e-12))
	})

	It("enforces a minimum resolution", func() {
		Expect(orbit.Track(1, 0, 1)).To(HaveLen(4))
	})
})
