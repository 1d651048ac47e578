package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

const (
	DefaultDt          = 1.0
	DefaultDuration    = 10000.0
	DefaultSampleEvery = 50
	DefaultTimeScale   = 1.0
)

type Config struct {
	Dt                  float64           `yaml:"dt"`
	Duration            float64           `yaml:"duration"`
	SampleEvery         int               `yaml:"sample_every"`
	EscapeCheck         bool              `yaml:"escape_check"`
	ResetDistanceFactor float64           `yaml:"reset_distance_factor"`
	CentralBody         CentralBodyConfig `yaml:"central_body"`
	Satellites          []SatelliteConfig `yaml:"satellites"`
}

type CentralBodyConfig struct {
	Radius                 float64        `yaml:"radius"`
	GravitationalParameter float64        `yaml:"gravitational_parameter"`
	CrashMargin            float64        `yaml:"crash_margin"`
	Position               dynamo.Vector3 `yaml:"position"`
}

type SatelliteConfig struct {
	Name           string   `yaml:"name"`
	Altitude       float64  `yaml:"altitude"`
	InclinationDeg float64  `yaml:"inclination_deg"`
	TimeScale      *float64 `yaml:"time_scale,omitempty"`
}

// displayName is the satellite's configured name, or sat-<index> when unset.
func (s SatelliteConfig) displayName(i int) string {
	if s.Name == "" {
		return fmt.Sprintf("sat-%d", i)
	}
	return s.Name
}

// timeScale is the configured time scale, DefaultTimeScale when omitted.
// An explicit value is passed through and clamped by the satellite.
func (s SatelliteConfig) timeScale() float64 {
	if s.TimeScale == nil {
		return DefaultTimeScale
	}
	return *s.TimeScale
}

func DefaultConfig() *Config {
	return &Config{
		Dt:                  DefaultDt,
		Duration:            DefaultDuration,
		SampleEvery:         DefaultSampleEvery,
		EscapeCheck:         true,
		ResetDistanceFactor: satellite.DefaultResetDistanceFactor,
		CentralBody: CentralBodyConfig{
			Radius:                 orbit.EarthRadius,
			GravitationalParameter: orbit.GravitationalParameter,
			CrashMargin:            orbit.DefaultCrashMargin,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, c.Duration)
	}
	if !(c.CentralBody.Radius > 0) {
		return fmt.Errorf("%w: central body radius must be positive, got %g", dynamo.ErrParameterBounds, c.CentralBody.Radius)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if len(c.Satellites) == 0 {
		return fmt.Errorf("%w: no satellites configured", dynamo.ErrParameterBounds)
	}
	seen := make(map[string]int, len(c.Satellites))
	for i, s := range c.Satellites {
		name := s.displayName(i)
		if j, ok := seen[name]; ok {
			return fmt.Errorf("%w: satellites %d and %d share the name %q", dynamo.ErrParameterBounds, j, i, name)
		}
		seen[name] = i
		if r := c.CentralBody.Radius + s.Altitude; !(r > 0) {
			return fmt.Errorf("satellite %d (%s): %w: orbit radius %g", i, name, dynamo.ErrInvalidRadius, r)
		}
	}
	return nil
}

// Params converts the central-body section into integrator parameters.
func (c *Config) Params() orbit.Params {
	return orbit.Params{
		CentralBodyRadius:      c.CentralBody.Radius,
		GravitationalParameter: c.CentralBody.GravitationalParameter,
		CrashMargin:            c.CentralBody.CrashMargin,
		EscapeCheckEnabled:     c.EscapeCheck,
	}
}

// BuildSatellites creates the configured fleet around the central body.
// Unnamed satellites are called sat-<index>; names must be unique since
// metrics and exports key on them.
func (c *Config) BuildSatellites() ([]*satellite.Satellite, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sats := make([]*satellite.Satellite, 0, len(c.Satellites))
	for i, sc := range c.Satellites {
		name := sc.displayName(i)
		opts := satellite.Options{
			Params:              c.Params(),
			Center:              c.CentralBody.Position,
			TimeScale:           sc.timeScale(),
			ResetDistanceFactor: c.ResetDistanceFactor,
		}
		sat, err := satellite.New(name, sc.Altitude, sc.InclinationDeg*math.Pi/180, opts)
		if err != nil {
			return nil, fmt.Errorf("satellite %s: %w", name, err)
		}
		sats = append(sats, sat)
	}
	return sats, nil
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	cfg.SampleEvery = c.SampleEvery
	cfg.Central = c.CentralBody.Position
	return cfg
}

// SetTimeScale overrides the time scale of every configured satellite.
// Each satellite gets its own copy so shared slices stay independent.
func (c *Config) SetTimeScale(v float64) {
	for i := range c.Satellites {
		ts := v
		c.Satellites[i].TimeScale = &ts
	}
}
