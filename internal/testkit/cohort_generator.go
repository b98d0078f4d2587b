package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"ablab/domain/cohort"
	"ablab/domain/core"
)

// CohortGeneratorConfig configures the synthetic experiment generator
type CohortGeneratorConfig struct {
	SampleCount int     `json:"sample_count"` // total subjects, split evenly between groups
	Seed        int64   `json:"seed"`
	LiftB       float64 `json:"lift_b"` // multiplicative lift applied to group B metrics
}

// DefaultCohortConfig returns sensible defaults for cohort generation
func DefaultCohortConfig() CohortGeneratorConfig {
	return CohortGeneratorConfig{
		SampleCount: 200,
		Seed:        42,
		LiftB:       1.15,
	}
}

// metricProfile describes the baseline distribution of one metric.
type metricProfile struct {
	key    core.MetricKey
	mean   float64
	std    float64
	lifted bool // whether group B receives the configured lift
}

var metricProfiles = []metricProfile{
	{key: "Session_Count", mean: 6, std: 2, lifted: false},
	{key: "Task_Completion_Rate", mean: 0.62, std: 0.12, lifted: true},
	{key: "Button_Click_Rate", mean: 14, std: 4, lifted: true},
	{key: "Plot_Interactions", mean: 9, std: 3, lifted: true},
	{key: "Early_Exit_Rate", mean: 0.30, std: 0.08, lifted: false},
	{key: "Module_Navigation_Depth", mean: 4.5, std: 1.2, lifted: true},
	{key: "Error_Count", mean: 1.8, std: 0.9, lifted: false},
}

// CohortGenerator generates synthetic A/B experiment exports with a
// configurable treatment effect, for tests and demos.
type CohortGenerator struct {
	config CohortGeneratorConfig
	rng    *rand.Rand
}

// NewCohortGenerator creates a deterministic generator for the config
func NewCohortGenerator(config CohortGeneratorConfig) *CohortGenerator {
	return &CohortGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTable builds an in-memory cohort table with derived time
// columns attached, mirroring what the loader would produce.
func (g *CohortGenerator) GenerateTable() (*cohort.Table, error) {
	rows := g.generateRows()

	metrics := make([]core.MetricKey, len(metricProfiles))
	for i, p := range metricProfiles {
		metrics[i] = p.key
	}
	table := cohort.NewTable("User_ID", "Group", metrics)

	rawTimeSpent := make([]string, 0, len(rows))
	for _, row := range rows {
		table.Append(row.observation)
		rawTimeSpent = append(rawTimeSpent, row.timeSpent)
	}
	if err := cohort.AttachTimeColumns(table, rawTimeSpent); err != nil {
		return nil, err
	}
	return table, nil
}

// WriteCSV writes the synthetic export in the source file format: one
// identifier column, the group column, the numeric metrics, and the
// single-quoted time breakdown column.
func (g *CohortGenerator) WriteCSV(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create data file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"User_ID", "Group"}
	for _, p := range metricProfiles {
		header = append(header, p.key.String())
	}
	header = append(header, cohort.TimeSpentColumn)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range g.generateRows() {
		record := []string{row.observation.ID, row.observation.Group.String()}
		for _, p := range metricProfiles {
			record = append(record, strconv.FormatFloat(row.observation.Metrics[p.key], 'f', 4, 64))
		}
		record = append(record, row.timeSpent)
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type generatedRow struct {
	observation cohort.Observation
	timeSpent   string
}

func (g *CohortGenerator) generateRows() []generatedRow {
	rows := make([]generatedRow, 0, g.config.SampleCount)
	for i := 0; i < g.config.SampleCount; i++ {
		group := core.GroupA
		if i%2 == 1 {
			group = core.GroupB
		}

		metrics := make(map[core.MetricKey]float64, len(metricProfiles))
		for _, p := range metricProfiles {
			value := p.mean + g.rng.NormFloat64()*p.std
			if p.lifted && group == core.GroupB {
				value *= g.config.LiftB
			}
			if value < 0 {
				value = 0
			}
			metrics[p.key] = value
		}

		rows = append(rows, generatedRow{
			observation: cohort.Observation{
				ID:      fmt.Sprintf("user_%04d", i+1),
				Group:   group,
				Metrics: metrics,
			},
			timeSpent: g.timeBreakdown(group),
		})
	}
	return rows
}

// timeBreakdown serializes a per-section time map the way the source
// export does: single-quoted keys.
func (g *CohortGenerator) timeBreakdown(group core.GroupLabel) string {
	base := 120.0
	if group == core.GroupB {
		base *= g.config.LiftB
	}
	out := "{"
	for i, section := range cohort.Sections {
		if i > 0 {
			out += ", "
		}
		seconds := base + g.rng.NormFloat64()*20
		if seconds < 1 {
			seconds = 1
		}
		out += fmt.Sprintf("'%s': %.1f", section, seconds)
	}
	return out + "}"
}
