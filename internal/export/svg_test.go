package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

func TestTrajectorySVG(t *testing.T) {
	samples := []sim.Sample{
		{Satellite: "a", Position: dynamo.Vector3{X: 1}},
		{Satellite: "b", Position: dynamo.Vector3{X: 2}},
		{Satellite: "a", Position: dynamo.Vector3{Z: 1}},
		{Satellite: "b", Position: dynamo.Vector3{Z: 2}},
		{Satellite: "a", Position: dynamo.Vector3{X: -0.5}, Outcome: orbit.Crashed},
	}

	svg := TrajectorySVG(samples, 0.5, 400, 300)

	if err := xml.Unmarshal([]byte(svg), new(struct{})); err != nil {
		t.Fatalf("not well-formed xml: %v", err)
	}
	if got := strings.Count(svg, `class="track"`); got != 2 {
		t.Errorf("expected 2 tracks, got %d", got)
	}
	if !strings.Contains(svg, `class="central-body"`) {
		t.Error("central body missing")
	}
	if got := strings.Count(svg, `class="impact"`); got != 1 {
		t.Errorf("expected 1 impact marker, got %d", got)
	}
	if got := strings.Count(svg, `class="satellite"`); got != 1 {
		t.Errorf("expected 1 live satellite marker, got %d", got)
	}
	if !strings.Contains(svg, `width="400" height="300"`) {
		t.Error("dimensions not applied")
	}
}

func TestTrajectorySVGScale(t *testing.T) {
	samples := []sim.Sample{{Satellite: "a", Position: dynamo.Vector3{X: 1}}}
	svg := TrajectorySVG(samples, 0.5, 220, 220)

	// extent 1.1 maps onto half the canvas, so the body radius is 50px
	if !strings.Contains(svg, `r="50.00"`) {
		t.Errorf("unexpected body radius in %s", svg)
	}
}

func TestTrajectorySVGEmpty(t *testing.T) {
	svg := TrajectorySVG(nil, 0.0637, 100, 100)
	if strings.Contains(svg, `class="track"`) {
		t.Error("no tracks expected")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}
