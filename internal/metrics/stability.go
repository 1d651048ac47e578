package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

// RadiusSpread reports the worst coefficient of variation of orbital
// distance (stddev / mean) across the fleet. A perfect circle scores 0.
type RadiusSpread struct {
	name      string
	distances map[string][]float64
}

func NewRadiusSpread() *RadiusSpread {
	return &RadiusSpread{
		name:      "radius_spread",
		distances: make(map[string][]float64),
	}
}

func (r *RadiusSpread) Name() string { return r.name }

func (r *RadiusSpread) Observe(f sim.Frame, sat *satellite.Satellite, tick satellite.Tick) {
	if tick.Frozen {
		return
	}
	if tick.Reset {
		r.distances[sat.Name] = r.distances[sat.Name][:0]
	}
	d := sat.State().Position.DistanceTo(f.Central)
	r.distances[sat.Name] = append(r.distances[sat.Name], d)
}

func (r *RadiusSpread) Value() float64 {
	worst := 0.0
	for _, name := range r.names() {
		ds := r.distances[name]
		if len(ds) < 2 {
			continue
		}
		mean, std := stat.MeanStdDev(ds, nil)
		if mean > 0 && std/mean > worst {
			worst = std / mean
		}
	}
	return worst
}

func (r *RadiusSpread) Reset() {
	r.distances = make(map[string][]float64)
}

func (r *RadiusSpread) names() []string {
	names := make([]string, 0, len(r.distances))
	for name := range r.distances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
