/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer.go
Description: Synthesis run records for the metrics directory. Captures the
outcome of one synthesis run as a typed record and writes it as a timestamped,
versioned JSON file under metrics/synthesis for later analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const runRecordKind = "synthesis"

// RunRecord captures the outcome of one synthesis run
type RunRecord struct {
	PlanID     string    `json:"plan_id"`
	Validated  bool      `json:"validated"`
	SampleDir  string    `json:"sample_dir"`
	InputRows  int       `json:"input_rows"`
	OutputRows int       `json:"output_rows"`
	Lang       string    `json:"lang"`
	ModulePath string    `json:"module_path"`
	DurationMS int64     `json:"duration_ms"`
	Version    string    `json:"version"`
	WrittenAt  time.Time `json:"written_at"`
}

// WriteRunRecord writes the record under metrics/synthesis with a timestamped,
// versioned filename and returns the path written
func WriteRunRecord(record *RunRecord) (string, error) {
	metricsDir := filepath.Join("metrics", runRecordKind)
	if err := os.MkdirAll(metricsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create metrics directory: %w", err)
	}

	record.WrittenAt = time.Now()

	// Filename: 2026-08-30_01-30-00_synthesis_v1.0.0.json
	timestamp := record.WrittenAt.Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_v%s.json", timestamp, runRecordKind, record.Version)
	filePath := filepath.Join(metricsDir, filename)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metrics file: %w", err)
	}

	return filePath, nil
}
