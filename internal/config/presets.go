package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
)

// LowOrbitAltitude is the altitude used by the low-orbit presets. The
// nominal LEO altitude lies inside the crash margin.
const LowOrbitAltitude = 0.0055

var presets = map[string]func() *Config{
	"leo": func() *Config {
		return withSatellites(SatelliteConfig{Name: "leo", Altitude: LowOrbitAltitude, InclinationDeg: 28.5})
	},
	"meo": func() *Config {
		return withSatellites(SatelliteConfig{Name: "meo", Altitude: orbit.MEOAltitude, InclinationDeg: 55})
	},
	"geo": func() *Config {
		cfg := withSatellites(SatelliteConfig{Name: "geo", Altitude: orbit.GEOAltitude})
		cfg.Duration = 50000
		cfg.SampleEvery = 250
		return cfg
	},
	"constellation": func() *Config {
		return withSatellites(
			SatelliteConfig{Name: "leo-a", Altitude: LowOrbitAltitude, InclinationDeg: 0},
			SatelliteConfig{Name: "leo-b", Altitude: LowOrbitAltitude, InclinationDeg: 60},
			SatelliteConfig{Name: "meo-a", Altitude: orbit.MEOAltitude, InclinationDeg: 30},
			SatelliteConfig{Name: "meo-b", Altitude: orbit.MEOAltitude, InclinationDeg: 90},
			SatelliteConfig{Name: "geo", Altitude: orbit.GEOAltitude, InclinationDeg: 0},
		)
	},
	"decay": func() *Config {
		return withSatellites(SatelliteConfig{Name: "decay", Altitude: LowOrbitAltitude, TimeScale: floatPtr(0.1)})
	},
	"escape": func() *Config {
		cfg := withSatellites(SatelliteConfig{Name: "escape", Altitude: LowOrbitAltitude, TimeScale: floatPtr(3.0)})
		cfg.Duration = 2000
		cfg.SampleEvery = 10
		return cfg
	},
}

func floatPtr(v float64) *float64 { return &v }

func withSatellites(sats ...SatelliteConfig) *Config {
	cfg := DefaultConfig()
	cfg.Satellites = sats
	return cfg
}

// GetPreset returns a fresh copy of the named preset.
func GetPreset(name string) (*Config, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	return build(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
