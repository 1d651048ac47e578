// Package optim sweeps scenario parameters over a grid and scores each
// combination by a simulation metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbsim/internal/sim"
)

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Result *sim.Result
}

// Builder creates a ready-to-run simulator for one combination of params.
type Builder func(params map[string]float64) (*sim.Simulator, sim.Config, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every grid point and returns all trials in grid order along
// with the one minimizing metricName. A trial whose build or run fails
// aborts the search.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) ([]Trial, Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, Trial{}, fmt.Errorf("grid search: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	trials := make([]Trial, 0, g.size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &trials); err != nil {
		return trials, Trial{}, err
	}

	best := Trial{Value: math.Inf(1)}
	for _, tr := range trials {
		if tr.Value < best.Value {
			best = tr
		}
	}
	return trials, best, nil
}

func (g *GridSearch) size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	trials *[]Trial,
) error {
	if depth == len(g.paramNames) {
		s, cfg, err := build(current)
		if err != nil {
			return fmt.Errorf("build %v: %w", current, err)
		}
		result, err := s.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("run %v: %w", current, err)
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %q not recorded (have %v)", metricName, metricNames(result))
		}
		*trials = append(*trials, Trial{Params: current, Value: val, Result: result})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

func metricNames(r *sim.Result) []string {
	names := make([]string, 0, len(r.Metrics))
	for n := range r.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
