package stats

import (
	"encoding/json"
	"math"
	"testing"

	"ablab/domain/core"
)

// TestTTestResult_ErrorMarshalShape verifies error-tagged results carry
// only the metric, test type, and message when serialized.
func TestTTestResult_ErrorMarshalShape(t *testing.T) {
	result := TTestResult{
		Metric: "Session_Count",
		Test:   TestTypeT,
		Err:    "insufficient data for t-test",
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("Expected exactly 3 fields for an error result, got %d: %v", len(decoded), decoded)
	}
	if decoded["metric"] != "Session_Count" || decoded["test"] != TestTypeT {
		t.Errorf("Unexpected identifying fields: %v", decoded)
	}
	if decoded["error"] != "insufficient data for t-test" {
		t.Errorf("Unexpected error field: %v", decoded["error"])
	}
}

// TestTTestResult_NilPercentChange verifies nil serializes as JSON null
func TestTTestResult_NilPercentChange(t *testing.T) {
	result := TTestResult{Metric: "Early_Exit_Rate", Test: TestTypeT}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if v, ok := decoded["percent_change"]; !ok || v != nil {
		t.Errorf("Expected percent_change to be present and null, got %v (present=%v)", v, ok)
	}
}

// TestTTestResult_InfiniteTStatistic verifies a non-finite statistic
// serializes as null instead of breaking the document.
func TestTTestResult_InfiniteTStatistic(t *testing.T) {
	result := TTestResult{
		Metric:     "Plot_Interactions",
		Test:       TestTypeT,
		TStatistic: math.Inf(1),
		PValue:     0,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed for infinite t-statistic: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["t_statistic"] != nil {
		t.Errorf("Expected null t_statistic, got %v", decoded["t_statistic"])
	}
	if decoded["p_value"] != float64(0) {
		t.Errorf("Expected p_value 0, got %v", decoded["p_value"])
	}
}

// TestRankTestResult_ErrorMarshalShape mirrors the t-test error shape
func TestRankTestResult_ErrorMarshalShape(t *testing.T) {
	result := RankTestResult{
		Metric: "Button_Click_Rate",
		Test:   TestTypeMannWhitney,
		Err:    "insufficient data for Mann-Whitney test",
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("Expected exactly 3 fields for an error result, got %d: %v", len(decoded), decoded)
	}
}

// TestResultSet_SignificantFilters verifies error results never qualify
func TestResultSet_SignificantFilters(t *testing.T) {
	pc := 25.0
	rs := &ResultSet{
		Alpha: 0.05,
		TTestResults: []TTestResult{
			{Metric: "A1", Test: TestTypeT, Significant: true, PercentChange: &pc},
			{Metric: "A2", Test: TestTypeT, Significant: false},
			{Metric: "A3", Test: TestTypeT, Err: "insufficient data for t-test"},
		},
		MannWhitneyResults: []RankTestResult{
			{Metric: "A1", Test: TestTypeMannWhitney, Significant: true},
			{Metric: "A2", Test: TestTypeMannWhitney, Significant: true},
			{Metric: "A3", Test: TestTypeMannWhitney, Err: "insufficient data for Mann-Whitney test"},
		},
	}

	sig := rs.SignificantTTests()
	if len(sig) != 1 || sig[0].Metric != "A1" {
		t.Errorf("Expected one significant t-test (A1), got %v", sig)
	}

	rankSig := rs.SignificantRankTests()
	if len(rankSig) != 2 {
		t.Errorf("Expected two significant rank tests, got %d", len(rankSig))
	}
}

// TestResultSet_Lookup verifies lookup by metric key
func TestResultSet_Lookup(t *testing.T) {
	rs := &ResultSet{
		TTestResults: []TTestResult{
			{Metric: core.MetricKey("Task_Completion_Rate"), Test: TestTypeT, GroupAMean: 0.5},
		},
	}

	result, ok := rs.LookupTTest("Task_Completion_Rate")
	if !ok || result.GroupAMean != 0.5 {
		t.Errorf("Expected to find the t-test result, got ok=%v result=%+v", ok, result)
	}
	if _, ok := rs.LookupTTest("Missing"); ok {
		t.Error("Expected lookup miss for an unknown metric")
	}
	if _, ok := rs.LookupRankTest("Missing"); ok {
		t.Error("Expected rank lookup miss for an unknown metric")
	}
}

// TestResultSet_RoundTrip verifies a healthy document survives JSON
func TestResultSet_RoundTrip(t *testing.T) {
	pc := 90.909
	rs := &ResultSet{
		RunID: core.RunID(core.NewID()),
		Alpha: 0.05,
		TTestResults: []TTestResult{
			{
				Metric:        "Task_Completion_Rate",
				Test:          TestTypeT,
				GroupAMean:    11,
				GroupBMean:    21,
				Difference:    10,
				PercentChange: &pc,
				TStatistic:    -7.07,
				PValue:        0.019,
				EffectSize:    7.07,
				Significant:   true,
				SampleSizeA:   2,
				SampleSizeB:   2,
			},
		},
		MannWhitneyResults: []RankTestResult{
			{Metric: "Task_Completion_Rate", Test: TestTypeMannWhitney, GroupAMedian: 11, GroupBMedian: 21, PValue: 0.24},
		},
	}

	data, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ResultSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Alpha != 0.05 {
		t.Errorf("Expected alpha 0.05, got %f", decoded.Alpha)
	}
	if len(decoded.TTestResults) != 1 || decoded.TTestResults[0].GroupBMean != 21 {
		t.Errorf("T-test results did not survive the round trip: %+v", decoded.TTestResults)
	}
	if decoded.TTestResults[0].PercentChange == nil || *decoded.TTestResults[0].PercentChange != 90.909 {
		t.Error("Percent change did not survive the round trip")
	}
}
