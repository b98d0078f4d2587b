package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ablab/domain/stats"
	"ablab/internal"
)

// SaveResults serializes a result set to its flat JSON document. The
// document is rewritten whole on every run.
func SaveResults(results *stats.ResultSet, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	internal.DefaultLogger.Info("statistical results saved to %s", outputPath)
	return nil
}

// LoadResults reads a previously saved results document. Used only by
// the report server; the pipeline itself passes the result set by value.
func LoadResults(path string) (*stats.ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	var results stats.ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &results, nil
}
