package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mariogeiger/gradcmp-optim/internal/experiment"
)

type ExportData struct {
	Objective string             `json:"objective"`
	Dim       int                `json:"dim"`
	Tau       float64            `json:"tau"`
	Dt        float64            `json:"dt"`
	LowBound  float64            `json:"low_bound"`
	HighBound float64            `json:"high_bound"`
	Seed      int64              `json:"seed"`
	Calls     int                `json:"calls"`
	Accepted  int                `json:"accepted"`
	Times     []float64          `json:"times"`
	Losses    []float64          `json:"losses"`
	StepSizes []float64          `json:"step_sizes"`
	GradNorms []float64          `json:"grad_norms"`
	Positions [][]float64        `json:"positions"`
	Metrics   map[string]float64 `json:"metrics"`
}

func exportData(cfg experiment.Config, result *experiment.Result) ExportData {
	positions := make([][]float64, len(result.Trace))
	for i, rec := range result.Trace {
		positions[i] = rec.Position
	}

	return ExportData{
		Objective: cfg.Objective,
		Dim:       cfg.Dim,
		Tau:       cfg.Tau,
		Dt:        cfg.Dt,
		LowBound:  cfg.LowBound,
		HighBound: cfg.HighBound,
		Seed:      cfg.Seed,
		Calls:     result.Calls,
		Accepted:  result.Accepted,
		Times:     result.Trace.Times(),
		Losses:    result.Trace.Losses(),
		StepSizes: result.Trace.StepSizes(),
		GradNorms: result.Trace.GradNorms(),
		Positions: positions,
		Metrics:   result.Metrics,
	}
}

func ExportJSON(path string, cfg experiment.Config, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeExport(file, cfg, result)
}

func ExportJSONStdout(cfg experiment.Config, result *experiment.Result) error {
	return writeExport(os.Stdout, cfg, result)
}

func writeExport(w io.Writer, cfg experiment.Config, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(cfg, result))
}
