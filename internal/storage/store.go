package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mariogeiger/gradcmp-optim/internal/experiment"
	"github.com/mariogeiger/gradcmp-optim/internal/trace"
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
	ID        string             `json:"id"`
	Objective string             `json:"objective"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dim       int                `json:"dim"`
	Tau       float64            `json:"tau"`
	Dt        float64            `json:"dt"`
	LowBound  float64            `json:"low_bound"`
	HighBound float64            `json:"high_bound"`
	Steps     int                `json:"steps"`
	Accepted  int                `json:"accepted"`
	FinalLoss float64            `json:"final_loss"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one finished run under a fresh run directory: metadata.json
// with the config and summary numbers, trace.csv with the full call history.
// Floats go through the shortest round-trippable form so tiny losses and
// step sizes survive reload.
func (s *Store) Save(cfg experiment.Config, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Objective, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Objective: cfg.Objective,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dim:       cfg.Dim,
		Tau:       cfg.Tau,
		Dt:        cfg.Dt,
		LowBound:  cfg.LowBound,
		HighBound: cfg.HighBound,
		Steps:     cfg.Steps,
		Accepted:  result.Accepted,
		FinalLoss: result.FinalLoss,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trace.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Trace); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV writes a trace in the run directory layout: one row per call,
// position coordinates as trailing columns. An empty trace writes nothing.
func WriteCSV(out io.Writer, tr trace.Trace) error {
	if len(tr) == 0 {
		return nil
	}

	w := csv.NewWriter(out)

	header := []string{"call", "step", "t", "dt", "loss", "grad_norm", "accepted"}
	for i := range tr[0].Position {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, rec := range tr {
		row := []string{
			strconv.Itoa(rec.Call),
			strconv.Itoa(rec.Step),
			strconv.FormatFloat(rec.T, 'g', -1, 64),
			strconv.FormatFloat(rec.Dt, 'g', -1, 64),
			strconv.FormatFloat(rec.Loss, 'g', -1, 64),
			strconv.FormatFloat(rec.GradNorm, 'g', -1, 64),
			strconv.FormatBool(rec.Accepted),
		}
		for _, x := range rec.Position {
			row = append(row, strconv.FormatFloat(x, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads trace.csv back into records. Rows that fail to parse are
// skipped rather than failing the whole load.
func (s *Store) LoadTrace(runID string) (trace.Trace, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trace.csv")
	file, err := os.Open(csvPath)
	if err != nil {
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
		return trace.Trace{}, nil
	}

	tr := make(trace.Trace, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) < 7 {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			continue
		}
		tr = append(tr, rec)
	}

	return tr, nil
}

func parseRow(row []string) (trace.Record, error) {
	var rec trace.Record
	var err error

	if rec.Call, err = strconv.Atoi(row[0]); err != nil {
		return rec, err
	}
	if rec.Step, err = strconv.Atoi(row[1]); err != nil {
		return rec, err
	}
	if rec.T, err = strconv.ParseFloat(row[2], 64); err != nil {
		return rec, err
	}
	if rec.Dt, err = strconv.ParseFloat(row[3], 64); err != nil {
		return rec, err
	}
	if rec.Loss, err = strconv.ParseFloat(row[4], 64); err != nil {
		return rec, err
	}
	if rec.GradNorm, err = strconv.ParseFloat(row[5], 64); err != nil {
		return rec, err
	}
	if rec.Accepted, err = strconv.ParseBool(row[6]); err != nil {
		return rec, err
	}

	for _, field := range row[7:] {
		x, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return rec, err
		}
		rec.Position = append(rec.Position, x)
	}

	return rec, nil
}
