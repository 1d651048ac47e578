package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/logging"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
)

// minParallelChunk keeps tiny fleets on the calling goroutine.
const minParallelChunk = 8

// Simulator advances a fleet of independent satellites around one central
// body. It is not safe for concurrent use.
type Simulator struct {
	sats      []*satellite.Satellite
	metrics   []Metric
	observers []Observer
	log       logging.Logger

	ticks    []satellite.Tick
	escaping []bool
	events   []Event
}

func New(sats []*satellite.Satellite, log logging.Logger) *Simulator {
	if log == nil {
		log = logging.Noop()
	}
	return &Simulator{
		sats:      sats,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
		ticks:     make([]satellite.Tick, len(sats)),
		escaping:  make([]bool, len(sats)),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Satellites() []*satellite.Satellite { return s.sats }

// Step advances every satellite by one frame. Satellites are stepped in
// parallel; metrics, observers and event logging run afterwards in fleet
// order. The returned slice is reused by the next call.
func (s *Simulator) Step(ctx context.Context, f Frame) []satellite.Tick {
	dynamo.ParallelFor(len(s.sats), minParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			s.ticks[i] = s.sats[i].Advance(f.Dt, f.Central)
		}
	})

	s.events = s.events[:0]
	for i, sat := range s.sats {
		tick := s.ticks[i]
		for _, m := range s.metrics {
			m.Observe(f, sat, tick)
		}
		for _, obs := range s.observers {
			obs.OnStep(f, sat, tick)
		}
		if ev, ok := s.event(i, f, tick); ok {
			s.events = append(s.events, ev)
			s.logEvent(ctx, ev, f)
		}
	}
	return s.ticks
}

// Events returns the events raised by the most recent Step.
func (s *Simulator) Events() []Event { return s.events }

// Run advances the fleet for cfg.Duration/cfg.Dt frames, or until every
// satellite has crashed or ctx is done.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration / cfg.Dt)
	sampleEvery := cfg.SampleEvery
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, (frames/sampleEvery+2)*len(s.sats)),
		Events:  make([]Event, 0),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	for i := range s.escaping {
		s.escaping[i] = false
	}

	central := cfg.Central
	if cfg.CentralPath != nil {
		central = cfg.CentralPath(0)
	}
	s.record(result, Frame{Central: central}, nil)

	h := orbit.SubStep(cfg.Dt)
	t := 0.0
	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		t += cfg.Dt
		if cfg.CentralPath != nil {
			central = cfg.CentralPath(t)
		}
		f := Frame{Index: i, Time: t, Dt: cfg.Dt, Central: central}

		ticks := s.Step(ctx, f)
		result.Events = append(result.Events, s.events...)
		result.Frames = i
		result.SimTime += h

		if cfg.ValidateState {
			if err := s.validate(f); err != nil {
				return result, err
			}
		}

		done := s.allCrashed()
		if i%sampleEvery == 0 || i == frames || done {
			s.record(result, f, ticks)
		}
		if done {
			s.log.Info(ctx, "all satellites crashed", logging.SimTime(t), logging.Int("frame", i))
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	return nil
}

func (s *Simulator) record(result *Result, f Frame, ticks []satellite.Tick) {
	for i, sat := range s.sats {
		st := sat.State()
		outcome := orbit.Nominal
		if ticks != nil {
			outcome = ticks[i].Result.Outcome
		}
		result.Samples = append(result.Samples, Sample{
			Frame:     f.Index,
			Time:      f.Time,
			Satellite: sat.Name,
			Position:  st.Position,
			Velocity:  st.Velocity,
			Distance:  st.Position.DistanceTo(f.Central),
			Outcome:   outcome,
		})
	}
}

// Event returns the event a tick represents, if any. A crash is reported
// once, on the step that caused it; an escape on the first step of a streak.
func (s *Simulator) event(i int, f Frame, tick satellite.Tick) (Event, bool) {
	sat := s.sats[i]
	ev := Event{Frame: f.Index, Time: f.Time, Satellite: sat.Name}

	wasEscaping := s.escaping[i]
	s.escaping[i] = tick.Result.Outcome == orbit.Escaping

	switch {
	case tick.Reset:
		ev.Kind, ev.Position = EventReset, sat.State().Position
	case tick.Result.Outcome == orbit.Crashed && !tick.Frozen:
		ev.Kind, ev.Position = EventCrash, tick.Result.ImpactPosition
	case tick.Result.Outcome == orbit.Escaping && !wasEscaping:
		ev.Kind, ev.Position = EventEscape, sat.State().Position
	default:
		return Event{}, false
	}
	return ev, true
}

func (s *Simulator) logEvent(ctx context.Context, ev Event, f Frame) {
	fields := []logging.Field{
		logging.Satellite(ev.Satellite),
		logging.SimTime(ev.Time),
		logging.Distance(ev.Position.DistanceTo(f.Central)),
	}
	switch ev.Kind {
	case EventReset:
		s.log.Warn(ctx, "satellite lost, orbit reset", fields...)
	case EventCrash:
		s.log.Warn(ctx, "satellite crashed", append(fields, logging.String("impact", ev.Position.String()))...)
	case EventEscape:
		s.log.Info(ctx, "satellite escaping", fields...)
	}
}

func (s *Simulator) validate(f Frame) error {
	for _, sat := range s.sats {
		if !sat.State().IsFinite() {
			return &dynamo.SimulationError{Step: f.Index, Time: f.Time, Satellite: sat.Name, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

func (s *Simulator) allCrashed() bool {
	if len(s.sats) == 0 {
		return false
	}
	for _, sat := range s.sats {
		if sat.Status() != satellite.Crashed {
			return false
		}
	}
	return true
}
