package cohort

import (
	"math"
	"testing"

	"ablab/domain/core"
)

// TestParseTimeBreakdown verifies the single-quoted source format parses
func TestParseTimeBreakdown(t *testing.T) {
	raw := "{'data_upload': 120.5, 'data_cleaning': 45.0, 'feature_engineering': 200.3, 'exploratory_analysis': 310.2}"

	breakdown, err := ParseTimeBreakdown(raw)
	if err != nil {
		t.Fatalf("ParseTimeBreakdown failed: %v", err)
	}
	if len(breakdown) != 4 {
		t.Errorf("Expected 4 sections, got %d", len(breakdown))
	}
	if breakdown["data_upload"] != 120.5 {
		t.Errorf("Expected data_upload 120.5, got %f", breakdown["data_upload"])
	}

	total := TotalTime(breakdown)
	if math.Abs(total-676.0) > 1e-9 {
		t.Errorf("Expected total 676.0, got %f", total)
	}
}

// TestParseTimeBreakdown_DoubleQuoted verifies plain JSON also parses
func TestParseTimeBreakdown_DoubleQuoted(t *testing.T) {
	breakdown, err := ParseTimeBreakdown(`{"data_upload": 10}`)
	if err != nil {
		t.Fatalf("ParseTimeBreakdown failed: %v", err)
	}
	if breakdown["data_upload"] != 10 {
		t.Errorf("Expected 10, got %f", breakdown["data_upload"])
	}
}

// TestParseTimeBreakdown_Invalid verifies garbage is rejected
func TestParseTimeBreakdown_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not json", "{'open': "} {
		if _, err := ParseTimeBreakdown(raw); err == nil {
			t.Errorf("Expected an error for %q", raw)
		}
	}
}

// TestAttachTimeColumns verifies derived totals and the NaN-not-zero rule
// for unparsable rows.
func TestAttachTimeColumns(t *testing.T) {
	table := NewTable("User_ID", "Group", nil)
	table.Append(Observation{ID: "u1", Group: core.GroupA, Metrics: map[core.MetricKey]float64{}})
	table.Append(Observation{ID: "u2", Group: core.GroupB, Metrics: map[core.MetricKey]float64{}})
	table.Append(Observation{ID: "u3", Group: core.GroupA, Metrics: map[core.MetricKey]float64{}})

	raw := []string{
		"{'data_upload': 100, 'data_cleaning': 50, 'feature_engineering': 30, 'exploratory_analysis': 20}",
		"corrupted",
		"{'data_upload': 10}",
	}
	if err := AttachTimeColumns(table, raw); err != nil {
		t.Fatalf("AttachTimeColumns failed: %v", err)
	}

	totals, err := table.Column(TotalTimeMetric)
	if err != nil {
		t.Fatalf("Total time column missing: %v", err)
	}
	if totals[0] != 200 {
		t.Errorf("Expected total 200 for the first row, got %f", totals[0])
	}
	if !math.IsNaN(totals[1]) {
		t.Errorf("Corrupted breakdown must yield NaN, not %f", totals[1])
	}
	if totals[2] != 10 {
		t.Errorf("Expected total 10 for the partial row, got %f", totals[2])
	}

	// Sections absent from a row are missing values, never zero.
	cleaning, err := table.Column(SectionMetric("data_cleaning"))
	if err != nil {
		t.Fatalf("Section column missing: %v", err)
	}
	if cleaning[0] != 50 {
		t.Errorf("Expected data_cleaning 50, got %f", cleaning[0])
	}
	if !math.IsNaN(cleaning[2]) {
		t.Errorf("Absent section must yield NaN, not %f", cleaning[2])
	}

	// One derived column per section plus the total.
	if got := table.ColumnCount(); got != len(Sections)+1 {
		t.Errorf("Expected %d derived columns, got %d", len(Sections)+1, got)
	}
}
