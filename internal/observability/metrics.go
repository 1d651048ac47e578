// Package observability exports simulator progress as Prometheus metrics.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbsim/internal/satellite"
	"github.com/san-kum/orbsim/internal/sim"
)

// Collector bundles the orbsim Prometheus metrics and implements
// sim.Observer so a Simulator can drive it directly.
type Collector struct {
	gatherer prometheus.Gatherer

	Steps    *prometheus.CounterVec
	Resets   *prometheus.CounterVec
	Distance *prometheus.GaugeVec
	Orbiting prometheus.Gauge
	statusOf map[string]satellite.Status
}

var _ sim.Observer = (*Collector)(nil)

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbsim_steps_total",
		Help: "Integration steps taken, labeled by satellite and step outcome.",
	}, []string{"satellite", "outcome"}), "orbsim_steps_total")
	if err != nil {
		return nil, err
	}
	resets, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbsim_resets_total",
		Help: "Orbit re-seeds after a satellite drifted beyond the reset distance.",
	}, []string{"satellite"}), "orbsim_resets_total")
	if err != nil {
		return nil, err
	}
	distance, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orbsim_satellite_distance",
		Help: "Current distance from the central body in scene units.",
	}, []string{"satellite"}), "orbsim_satellite_distance")
	if err != nil {
		return nil, err
	}
	orbiting, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbsim_satellites_orbiting",
		Help: "Number of satellites that have not crashed.",
	}), "orbsim_satellites_orbiting")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer: gatherer,
		Steps:    steps,
		Resets:   resets,
		Distance: distance,
		Orbiting: orbiting,
		statusOf: make(map[string]satellite.Status),
	}, nil
}

// OnStep records one satellite tick. Frozen ticks of crashed satellites
// are not counted as steps.
func (c *Collector) OnStep(f sim.Frame, sat *satellite.Satellite, tick satellite.Tick) {
	if c == nil {
		return
	}
	switch {
	case tick.Reset:
		c.Resets.WithLabelValues(sat.Name).Inc()
	case !tick.Frozen:
		c.Steps.WithLabelValues(sat.Name, tick.Result.Outcome.String()).Inc()
	}
	c.Distance.WithLabelValues(sat.Name).Set(sat.State().Position.DistanceTo(f.Central))

	c.statusOf[sat.Name] = sat.Status()
	orbiting := 0
	for _, st := range c.statusOf {
		if st == satellite.Orbiting {
			orbiting++
		}
	}
	c.Orbiting.Set(float64(orbiting))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve exposes Handler on addr under /metrics until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
