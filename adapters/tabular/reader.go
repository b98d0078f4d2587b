package tabular

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ablab/domain/cohort"
	"ablab/domain/core"
	"ablab/internal"
)

// Default column names in the experiment export.
const (
	DefaultIDColumn    = "User_ID"
	DefaultGroupColumn = "Group"
)

// DataReader loads the experiment dataset from CSV or Excel files into
// a cohort table with derived time columns attached.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"

	IDColumn    string
	GroupColumn string
}

// NewDataReader creates a reader for the given file, inferring the
// format from the extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath:    filePath,
		fileType:    fileType,
		IDColumn:    DefaultIDColumn,
		GroupColumn: DefaultGroupColumn,
	}
}

// Load reads the file and builds the cohort table. Columns where every
// populated cell parses as a number become metric columns, in source
// order; cells that fail to parse are stored as NaN. The time breakdown
// column is parsed into derived total and per-section columns.
func (r *DataReader) Load() (*cohort.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType))
	}

	return r.buildTable(rows)
}

// readCSVRows reads all raw CSV records.
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	internal.DefaultLogger.Debug("CSV file read (%d rows)", len(rows))
	return rows, nil
}

// readExcelRows reads all raw rows from Sheet1.
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	internal.DefaultLogger.Debug("Sheet1 read (%d rows)", len(rows))
	return rows, nil
}

// buildTable converts raw string rows into a cohort table.
func (r *DataReader) buildTable(rows [][]string) (*cohort.Table, error) {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[h] = i
	}
	if _, ok := colIndex[r.GroupColumn]; !ok {
		return nil, core.NewColumnNotFoundError(r.GroupColumn)
	}

	// Metric columns are the numeric ones, in source order. The
	// identifier, group, and time breakdown columns are excluded.
	var metrics []core.MetricKey
	for i, h := range headers {
		if h == r.IDColumn || h == r.GroupColumn || h == cohort.TimeSpentColumn {
			continue
		}
		if isNumericColumn(rows[1:], i) {
			metrics = append(metrics, core.MetricKey(h))
		}
	}

	table := cohort.NewTable(r.IDColumn, r.GroupColumn, metrics)
	rawTimeSpent := make([]string, 0, len(rows)-1)
	timeIdx, hasTimeSpent := colIndex[cohort.TimeSpentColumn]
	idIdx, hasID := colIndex[r.IDColumn]
	if !hasID {
		idIdx = -1
	}

	for _, row := range rows[1:] {
		obs := cohort.Observation{
			ID:      cellAt(row, idIdx),
			Group:   core.GroupLabel(cellAt(row, colIndex[r.GroupColumn])),
			Metrics: make(map[core.MetricKey]float64, len(metrics)),
		}
		for _, m := range metrics {
			obs.Metrics[m] = parseCell(cellAt(row, colIndex[m.String()]))
		}
		table.Append(obs)

		if hasTimeSpent {
			rawTimeSpent = append(rawTimeSpent, cellAt(row, timeIdx))
		}
	}

	if hasTimeSpent {
		if err := cohort.AttachTimeColumns(table, rawTimeSpent); err != nil {
			return nil, fmt.Errorf("failed to derive time columns: %w", err)
		}
	}

	internal.DefaultLogger.Info("loaded %s dataset: %d rows, %d metric columns",
		r.fileType, table.RowCount(), table.ColumnCount())
	return table, nil
}

// isNumericColumn reports whether every populated cell in a column
// parses as a number. Empty cells do not disqualify a column; they load
// as missing values.
func isNumericColumn(dataRows [][]string, idx int) bool {
	populated := 0
	for _, row := range dataRows {
		cell := cellAt(row, idx)
		if cell == "" {
			continue
		}
		populated++
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return populated > 0
}

// parseCell converts one cell to a float, NaN when empty or unparsable.
func parseCell(cell string) float64 {
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// cellAt returns the trimmed cell at idx, tolerating short rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
