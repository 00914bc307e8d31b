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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/sdr"
)

var ErrNoFrames = errors.New("storage: recording has no frames")

// Frame is one recorded step: the active input bits and active columns.
type Frame struct {
	Step    int   `json:"step"`
	Input   []int `json:"input"`
	Columns []int `json:"columns"`
}

// NewFrame stores the active indices of both SDRs.
func NewFrame(step int, input, columns sdr.SDR) Frame {
	return Frame{Step: step, Input: input.ActiveBits(), Columns: columns.ActiveBits()}
}

// SDRs expands the frame back to full-length SDRs.
func (f Frame) SDRs(numInputs, numColumns int) (input, columns sdr.SDR, err error) {
	if input, err = sdr.FromActive(numInputs, f.Input); err != nil {
		return nil, nil, err
	}
	if columns, err = sdr.FromActive(numColumns, f.Columns); err != nil {
		return nil, nil, err
	}
	return input, columns, nil
}

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
	ID         string             `json:"id"`
	Layout     string             `json:"layout"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	NumInputs  int                `json:"num_inputs"`
	NumColumns int                `json:"num_columns"`
	Frames     int                `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Recording is a run ready to save.
type Recording struct {
	Layout     string
	Seed       int64
	NumInputs  int
	NumColumns int
	Frames     []Frame
	Metrics    map[string]float64
}

func (s *Store) Save(rec *Recording) (string, error) {
	if len(rec.Frames) == 0 {
		return "", ErrNoFrames
	}
	runID := fmt.Sprintf("%s_%s", rec.Layout, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Layout:     rec.Layout,
		Timestamp:  time.Now(),
		Seed:       rec.Seed,
		NumInputs:  rec.NumInputs,
		NumColumns: rec.NumColumns,
		Frames:     len(rec.Frames),
		Metrics:    rec.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"step", "input", "columns"}); err != nil {
		return "", err
	}
	for _, f := range rec.Frames {
		if err := w.Write([]string{strconv.Itoa(f.Step), joinInts(f.Input), joinInts(f.Columns)}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	logging.Logger().Info("recording saved", "id", runID, "frames", len(rec.Frames))
	return runID, nil
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
			logging.Logger().Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, ErrNoFrames
	}

	frames := make([]Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		input, err := splitInts(record[1])
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		columns, err := splitInts(record[2])
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		frames = append(frames, Frame{Step: step, Input: input, Columns: columns})
	}
	return frames, nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func splitInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
