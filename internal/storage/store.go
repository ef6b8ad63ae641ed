// Package storage records headless particle runs on disk. A run is an
// export artefact: nothing here feeds back into a live session.
package storage

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"frame", "x", "y", "vx", "vy", "speed"}

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	log     *zap.Logger
	now     func() time.Time
}

func New(baseDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: log, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Preset     string    `json:"preset"`
	Timestamp  time.Time `json:"timestamp"`
	Frames     int       `json:"frames"`
	Canvas     Canvas    `json:"canvas"`
	Mode       string    `json:"mode"`
	Charges    int       `json:"charges"`
	Respawns   int       `json:"respawns"`
	FinalSpeed float64   `json:"final_speed"`
}

// Sample is one trajectory row.
type Sample struct {
	Frame int     `json:"frame"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Speed float64 `json:"speed"`
}

// Save writes a new run directory and returns its id. ID and Timestamp in
// meta are assigned here.
func (s *Store) Save(meta RunMetadata, traj []Sample) (string, error) {
	if err := s.Init(); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	meta.Timestamp = s.now().UTC()
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	base := fmt.Sprintf("%s_%d", name, meta.Timestamp.Unix())
	meta.ID = base
	for i := 2; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, meta.ID), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create run dir: %w", err)
		}
		meta.ID = fmt.Sprintf("%s_%d", base, i)
	}
	dir := filepath.Join(s.baseDir, meta.ID)

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, traj); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	s.log.Info("run saved", zap.String("id", meta.ID), zap.Int("frames", meta.Frames), zap.Int("samples", len(traj)))
	return meta.ID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}
	slices.SortFunc(runs, func(a, b RunMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes traj with a header row.
func WriteCSV(w io.Writer, traj []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, p := range traj {
		row := []string{
			strconv.Itoa(p.Frame),
			formatFloat(p.X),
			formatFloat(p.Y),
			formatFloat(p.VX),
			formatFloat(p.VY),
			formatFloat(p.Speed),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV wrote. Malformed rows are an error.
func ReadCSV(r io.Reader) ([]Sample, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	out := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(trajectoryHeader) {
			return nil, fmt.Errorf("trajectory row %d: want %d fields, got %d", i+1, len(trajectoryHeader), len(rec))
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("trajectory row %d: %w", i+1, err)
		}
		var v [5]float64
		for j := range v {
			if v[j], err = strconv.ParseFloat(rec[j+1], 64); err != nil {
				return nil, fmt.Errorf("trajectory row %d: %w", i+1, err)
			}
		}
		out = append(out, Sample{Frame: frame, X: v[0], Y: v[1], VX: v[2], VY: v[3], Speed: v[4]})
	}
	return out, nil
}

// Export is the JSON shape of a whole run.
type Export struct {
	RunMetadata
	Trajectory []Sample `json:"trajectory"`
}

func ExportJSON(w io.Writer, meta RunMetadata, traj []Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export{RunMetadata: meta, Trajectory: traj})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
