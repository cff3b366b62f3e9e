package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Samples   int                `json:"samples"`
	Frames    int                `json:"frames"`
	FPS       int                `json:"fps"`
	Duration  float64            `json:"duration"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Promoted  bool               `json:"promoted"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Frame is one row of frames.csv.
type Frame struct {
	At          time.Duration
	Decision    string
	Mode        string
	StepTime    time.Duration
	Convergence float64
}

var frameHeader = []string{"time", "decision", "mode", "step_ms", "convergence"}

// Save writes meta and frames into a new run directory and returns its ID.
// ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, frames []Frame) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_s%d_%d", meta.Preset, meta.Seed, meta.Timestamp.UnixMilli())
	}
	meta.Frames = len(frames)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sanitize(meta)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.At.Seconds(), 'f', 6, 64),
			f.Decision,
			f.Mode,
			strconv.FormatFloat(float64(f.StepTime)/float64(time.Millisecond), 'f', 4, 64),
			strconv.FormatFloat(f.Convergence, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
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
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(frameHeader) {
			continue
		}
		at, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		stepMs, _ := strconv.ParseFloat(record[3], 64)
		conv, _ := strconv.ParseFloat(record[4], 64)
		frames = append(frames, Frame{
			At:          time.Duration(at * float64(time.Second)),
			Decision:    record[1],
			Mode:        record[2],
			StepTime:    time.Duration(stepMs * float64(time.Millisecond)),
			Convergence: conv,
		})
	}
	return frames, nil
}

// sanitize drops NaN and Inf metrics, which JSON cannot encode.
func sanitize(meta RunMetadata) RunMetadata {
	if len(meta.Metrics) == 0 {
		return meta
	}
	clean := make(map[string]float64, len(meta.Metrics))
	for k, v := range meta.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean[k] = v
	}
	meta.Metrics = clean
	return meta
}
