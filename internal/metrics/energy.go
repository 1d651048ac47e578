package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

// SpecificEnergy is the orbital energy per unit mass, |v|^2/2 - mu/r.
func SpecificEnergy(st orbit.State, central orbit.State, mu float64) float64 {
	r := st.Position.DistanceTo(central.Position)
	v := st.Velocity.Sub(central.Velocity).Length()
	return 0.5*v*v - mu/r
}

// EnergyDrift tracks the worst relative drift of specific orbital energy
// across the fleet. A reset re-baselines the satellite; crashed satellites
// are ignored.
type EnergyDrift struct {
	name     string
	initial  map[string]float64
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		initial: make(map[string]float64),
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame, sat *satellite.Satellite, tick satellite.Tick) {
	if sat.Status() == satellite.Crashed {
		return
	}
	energy := SpecificEnergy(sat.State(), orbit.State{Position: f.Central}, sat.Params().GravitationalParameter)

	e0, ok := e.initial[sat.Name]
	if !ok || tick.Reset {
		e.initial[sat.Name] = energy
		return
	}
	if e0 != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e0)/math.Abs(e0))
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = make(map[string]float64)
	e.maxDrift = 0
}
