package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	eventsFile   = "events.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	Timestamp              time.Time          `json:"timestamp"`
	Dt                     float64            `json:"dt"`
	Duration               float64            `json:"duration"`
	Frames                 int                `json:"frames"`
	SimTime                float64            `json:"sim_time"`
	CentralBodyRadius      float64            `json:"central_body_radius"`
	GravitationalParameter float64            `json:"gravitational_parameter"`
	Satellites             []string           `json:"satellites"`
	Metrics                map[string]float64 `json:"metrics"`
}

type sampleRow struct {
	Frame     int     `csv:"frame" json:"frame"`
	Time      float64 `csv:"time" json:"time"`
	Satellite string  `csv:"satellite" json:"satellite"`
	X         float64 `csv:"x" json:"x"`
	Y         float64 `csv:"y" json:"y"`
	Z         float64 `csv:"z" json:"z"`
	VX        float64 `csv:"vx" json:"vx"`
	VY        float64 `csv:"vy" json:"vy"`
	VZ        float64 `csv:"vz" json:"vz"`
	Distance  float64 `csv:"distance" json:"distance"`
	Outcome   string  `csv:"outcome" json:"outcome"`
}

type eventRow struct {
	Frame     int     `csv:"frame" json:"frame"`
	Time      float64 `csv:"time" json:"time"`
	Satellite string  `csv:"satellite" json:"satellite"`
	Kind      string  `csv:"kind" json:"kind"`
	X         float64 `csv:"x" json:"x"`
	Y         float64 `csv:"y" json:"y"`
	Z         float64 `csv:"z" json:"z"`
}

// Save writes a run under a fresh directory named after meta.Name and
// returns its id. Frames, SimTime and Metrics are taken from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if meta.Name == "" {
		meta.Name = "run"
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	runID, runDir, err := s.newRunDir(meta.Name, meta.Timestamp)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Frames = result.Frames
	meta.SimTime = result.SimTime
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, samplesFile), toSampleRows(result.Samples)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, eventsFile), toEventRows(result.Events)); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, ts.Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	var rows []sampleRow
	if err := readCSV(filepath.Join(s.baseDir, runID, samplesFile), &rows); err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0, len(rows))
	for _, r := range rows {
		outcome, err := orbit.ParseOutcome(r.Outcome)
		if err != nil {
			return nil, fmt.Errorf("run %s frame %d: %w", runID, r.Frame, err)
		}
		samples = append(samples, sim.Sample{
			Frame:     r.Frame,
			Time:      r.Time,
			Satellite: r.Satellite,
			Position:  dynamo.Vector3{X: r.X, Y: r.Y, Z: r.Z},
			Velocity:  dynamo.Vector3{X: r.VX, Y: r.VY, Z: r.VZ},
			Distance:  r.Distance,
			Outcome:   outcome,
		})
	}
	return samples, nil
}

func (s *Store) LoadEvents(runID string) ([]sim.Event, error) {
	var rows []eventRow
	if err := readCSV(filepath.Join(s.baseDir, runID, eventsFile), &rows); err != nil {
		return nil, err
	}

	events := make([]sim.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, sim.Event{
			Frame:     r.Frame,
			Time:      r.Time,
			Satellite: r.Satellite,
			Kind:      sim.EventKind(r.Kind),
			Position:  dynamo.Vector3{X: r.X, Y: r.Y, Z: r.Z},
		})
	}
	return events, nil
}

func toSampleRows(samples []sim.Sample) []*sampleRow {
	rows := make([]*sampleRow, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, &sampleRow{
			Frame:     s.Frame,
			Time:      s.Time,
			Satellite: s.Satellite,
			X:         s.Position.X,
			Y:         s.Position.Y,
			Z:         s.Position.Z,
			VX:        s.Velocity.X,
			VY:        s.Velocity.Y,
			VZ:        s.Velocity.Z,
			Distance:  s.Distance,
			Outcome:   s.Outcome.String(),
		})
	}
	return rows
}

func toEventRows(events []sim.Event) []*eventRow {
	rows := make([]*eventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, &eventRow{
			Frame:     e.Frame,
			Time:      e.Time,
			Satellite: e.Satellite,
			Kind:      string(e.Kind),
			X:         e.Position.X,
			Y:         e.Position.Y,
			Z:         e.Position.Z,
		})
	}
	return rows
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.Unmarshal(f, out); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}
