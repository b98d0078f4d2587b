package tabular

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"ablab/domain/cohort"
	"ablab/internal"
)

// WriteProcessedCSV saves the table, derived columns included, as a
// flat CSV. Missing values serialize as empty cells.
func WriteProcessedCSV(table *cohort.Table, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create processed data file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	metrics := table.Metrics()
	header := make([]string, 0, len(metrics)+2)
	header = append(header, table.IDColumn, table.GroupColumn)
	for _, m := range metrics {
		header = append(header, m.String())
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < table.RowCount(); i++ {
		obs := table.Row(i)
		record := make([]string, 0, len(header))
		record = append(record, obs.ID, obs.Group.String())
		for _, m := range metrics {
			record = append(record, formatValue(obs.Metrics[m]))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush processed data: %w", err)
	}

	internal.DefaultLogger.Info("processed data saved to %s", outputPath)
	return nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
