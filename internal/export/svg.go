package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

var trackColors = []string{"#00d7ff", "#ffaf00", "#87ff5f", "#ff5f87", "#af87ff", "#ffff5f"}

// TrajectorySVG draws each satellite's track projected on the x-z plane
// around a central body disk at the origin. Both axes share one scale.
func TrajectorySVG(samples []sim.Sample, centralRadius float64, width, height int) string {
	names, tracks := groupTracks(samples)

	extent := centralRadius
	for _, s := range samples {
		extent = math.Max(extent, math.Max(math.Abs(s.Position.X), math.Abs(s.Position.Z)))
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	cx, cy := float64(width)/2, float64(height)/2
	scale := math.Min(cx, cy) / extent
	project := func(x, z float64) (float64, float64) {
		return cx + x*scale, cy - z*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<circle class="central-body" cx="%.1f" cy="%.1f" r="%.2f" fill="#1f5fbf"/>
`, width, height, width, height, cx, cy, centralRadius*scale)

	for i, name := range names {
		color := trackColors[i%len(trackColors)]
		track := tracks[name]

		fmt.Fprintf(&sb, `<path class="track" data-satellite="%s" fill="none" stroke="%s" stroke-width="1.5" d="`, name, color)
		for j, s := range track {
			x, y := project(s.Position.X, s.Position.Z)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		last := track[len(track)-1]
		x, y := project(last.Position.X, last.Position.Z)
		if last.Outcome == orbit.Crashed {
			fmt.Fprintf(&sb, `<path class="impact" stroke="#ff0000" stroke-width="2" d="M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f"/>
`, x-4, y-4, x+4, y+4, x-4, y+4, x+4, y-4)
		} else {
			fmt.Fprintf(&sb, `<circle class="satellite" cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// groupTracks splits samples by satellite, keeping first-seen order.
func groupTracks(samples []sim.Sample) ([]string, map[string][]sim.Sample) {
	var names []string
	tracks := make(map[string][]sim.Sample)
	for _, s := range samples {
		if _, ok := tracks[s.Satellite]; !ok {
			names = append(names, s.Satellite)
		}
		tracks[s.Satellite] = append(tracks[s.Satellite], s)
	}
	return names, tracks
}
