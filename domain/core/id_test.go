package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestMetricKeyLabel tests the display form of metric keys
func TestMetricKeyLabel(t *testing.T) {
	tests := []struct {
		key      MetricKey
		expected string
	}{
		{"Task_Completion_Rate", "Task Completion Rate"},
		{"Time_data_upload", "Time data upload"},
		{"Simple", "Simple"},
	}

	for _, test := range tests {
		if got := test.key.Label(); got != test.expected {
			t.Errorf("Label of %q: expected %q, got %q", test.key, test.expected, got)
		}
	}
}

// TestParseMetricKey tests metric key parsing
func TestParseMetricKey(t *testing.T) {
	tests := []struct {
		input    string
		expected MetricKey
		hasError bool
	}{
		{"Session_Count", MetricKey("Session_Count"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseMetricKey(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestGroupLabelString tests group label conversion
func TestGroupLabelString(t *testing.T) {
	if GroupA.String() != "A" || GroupB.String() != "B" {
		t.Errorf("Unexpected group labels: %s, %s", GroupA, GroupB)
	}
}
