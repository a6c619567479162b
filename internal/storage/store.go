package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"cogentcore.org/core/math32"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrBadFrame    = errors.New("storage: malformed frame record")
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// Store keeps recorded runs as one directory per run under baseDir.
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
	ID          string    `json:"id"`
	Project     string    `json:"project"`
	Timestamp   time.Time `json:"timestamp"`
	Steps       int       `json:"steps"`
	Paths       int       `json:"paths"`
	IntervalMs  int       `json:"interval_ms,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Save writes frames as a new run and returns its id.
func (s *Store) Save(project string, intervalMs int, frames []Frame) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", project, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	paths := make(map[string]bool)
	for _, f := range frames {
		for p := range f.Positions {
			paths[p] = true
		}
	}
	meta := RunMetadata{
		ID:         runID,
		Project:    project,
		Timestamp:  now,
		Steps:      len(frames),
		Paths:      len(paths),
		IntervalMs: intervalMs,
	}
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeFrames(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "path", "x", "y", "z"}); err != nil {
		return err
	}
	for _, fr := range frames {
		step := strconv.Itoa(fr.Step)
		for _, p := range fr.Paths() {
			v := fr.Positions[p]
			row := []string{step, p, formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}

// List returns the metadata of every readable run, newest first.
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
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads the frames of a run in step order.
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
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	byStep := make(map[int]*Frame)
	for i, record := range records[1:] {
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadFrame, i+2, err)
		}
		var xyz [3]float32
		for j := range xyz {
			v, err := strconv.ParseFloat(record[2+j], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadFrame, i+2, err)
			}
			xyz[j] = float32(v)
		}
		f, ok := byStep[step]
		if !ok {
			f = &Frame{Step: step, Positions: make(map[string]math32.Vector3)}
			byStep[step] = f
		}
		f.Positions[record[1]] = math32.Vec3(xyz[0], xyz[1], xyz[2])
	}

	frames := make([]Frame, 0, len(byStep))
	for _, f := range byStep {
		frames = append(frames, *f)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Step < frames[j].Step })
	return frames, nil
}
