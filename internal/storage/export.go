package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orbsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []*sampleRow `json:"samples"`
	Events  []*eventRow  `json:"events"`
}

// ExportJSON writes a run as a single indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample, events []sim.Event) error {
	data := ExportData{
		Run:     meta,
		Samples: toSampleRows(samples),
		Events:  toEventRows(events),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportRun loads a stored run and writes it with ExportJSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, samples, events)
}
