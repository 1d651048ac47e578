package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbsim/internal/sim"
)

// RadiusSeries groups sample distances by satellite in first-seen order.
func RadiusSeries(samples []sim.Sample) ([]string, [][]float64) {
	var names []string
	index := make(map[string]int)
	var series [][]float64
	for _, s := range samples {
		i, ok := index[s.Satellite]
		if !ok {
			i = len(names)
			index[s.Satellite] = i
			names = append(names, s.Satellite)
			series = append(series, nil)
		}
		series[i] = append(series[i], s.Distance)
	}
	return names, series
}

// PlotRadius charts each satellite's distance from the central body.
func PlotRadius(samples []sim.Sample, width, height int) string {
	names, series := RadiusSeries(samples)
	if len(series) == 0 {
		return ""
	}
	for i := range series {
		// asciigraph needs two points to draw a line
		if len(series[i]) == 1 {
			series[i] = append(series[i], series[i][0])
		}
	}
	return asciigraph.PlotMany(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("distance: "+strings.Join(names, ", ")),
	)
}
