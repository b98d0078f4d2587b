package cohort

import (
	"math"
	"testing"

	"ablab/domain/core"
)

// TestTable_AppendAndPartition verifies group splitting and NaN dropping
func TestTable_AppendAndPartition(t *testing.T) {
	metric := core.MetricKey("Session_Count")
	table := NewTable("User_ID", "Group", []core.MetricKey{metric})

	table.Append(Observation{ID: "u1", Group: core.GroupA, Metrics: map[core.MetricKey]float64{metric: 1}})
	table.Append(Observation{ID: "u2", Group: core.GroupB, Metrics: map[core.MetricKey]float64{metric: 2}})
	table.Append(Observation{ID: "u3", Group: core.GroupA, Metrics: map[core.MetricKey]float64{metric: math.NaN()}})
	table.Append(Observation{ID: "u4", Group: core.GroupA, Metrics: map[core.MetricKey]float64{metric: 3}})

	if table.RowCount() != 4 {
		t.Errorf("Expected 4 rows, got %d", table.RowCount())
	}

	groupA, groupB, err := table.Partition(metric)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(groupA) != 2 || groupA[0] != 1 || groupA[1] != 3 {
		t.Errorf("Expected group A [1 3], got %v", groupA)
	}
	if len(groupB) != 1 || groupB[0] != 2 {
		t.Errorf("Expected group B [2], got %v", groupB)
	}
}

// TestTable_AppendMissingMetric verifies absent metrics store as NaN
func TestTable_AppendMissingMetric(t *testing.T) {
	metric := core.MetricKey("Error_Count")
	table := NewTable("User_ID", "Group", []core.MetricKey{metric})
	table.Append(Observation{ID: "u1", Group: core.GroupA, Metrics: map[core.MetricKey]float64{}})

	values, err := table.Column(metric)
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if len(values) != 1 || !math.IsNaN(values[0]) {
		t.Errorf("Expected a single NaN, got %v", values)
	}
}

// TestTable_PartitionUnknownColumn verifies the not-found error path
func TestTable_PartitionUnknownColumn(t *testing.T) {
	table := NewTable("User_ID", "Group", nil)
	_, _, err := table.Partition("Missing")
	if err == nil {
		t.Fatal("Expected an error for an unknown column")
	}
	if !core.IsNotFoundError(err) {
		t.Errorf("Expected a not-found error, got %v", err)
	}
}

// TestTable_AddDerivedColumn verifies ordering and validation
func TestTable_AddDerivedColumn(t *testing.T) {
	metric := core.MetricKey("Session_Count")
	table := NewTable("User_ID", "Group", []core.MetricKey{metric})
	table.Append(Observation{ID: "u1", Group: core.GroupA, Metrics: map[core.MetricKey]float64{metric: 1}})
	table.Append(Observation{ID: "u2", Group: core.GroupB, Metrics: map[core.MetricKey]float64{metric: 2}})

	derived := core.MetricKey("Derived")
	if err := table.AddDerivedColumn(derived, []float64{10, 20}); err != nil {
		t.Fatalf("AddDerivedColumn failed: %v", err)
	}

	metrics := table.Metrics()
	if len(metrics) != 2 || metrics[1] != derived {
		t.Errorf("Derived columns must follow source columns, got %v", metrics)
	}

	// Length mismatch is rejected.
	if err := table.AddDerivedColumn("Bad", []float64{1}); err == nil {
		t.Error("Expected an error for a length-mismatched derived column")
	}
	// Duplicate keys are rejected.
	if err := table.AddDerivedColumn(derived, []float64{1, 2}); err == nil {
		t.Error("Expected an error for a duplicate column key")
	}
}

// TestTable_GroupCountsAndRow verifies accessors
func TestTable_GroupCountsAndRow(t *testing.T) {
	metric := core.MetricKey("Session_Count")
	table := NewTable("User_ID", "Group", []core.MetricKey{metric})
	table.Append(Observation{ID: "u1", Group: core.GroupA, Metrics: map[core.MetricKey]float64{metric: 5}})
	table.Append(Observation{ID: "u2", Group: core.GroupB, Metrics: map[core.MetricKey]float64{metric: 7}})
	table.Append(Observation{ID: "u3", Group: core.GroupB, Metrics: map[core.MetricKey]float64{metric: 9}})

	counts := table.GroupCounts()
	if counts[core.GroupA] != 1 || counts[core.GroupB] != 2 {
		t.Errorf("Unexpected group counts: %v", counts)
	}

	row := table.Row(1)
	if row.ID != "u2" || row.Group != core.GroupB || row.Metrics[metric] != 7 {
		t.Errorf("Unexpected row: %+v", row)
	}
}
