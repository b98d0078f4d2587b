package stats

import (
	"encoding/json"
	"math"

	"ablab/domain/core"
)

// DefaultAlpha is the significance threshold used when none is configured.
const DefaultAlpha = 0.05

// Test type names as they appear in the serialized results document.
const (
	TestTypeT           = "t-test"
	TestTypeMannWhitney = "mann-whitney"
)

// TTestResult is the parametric comparison for one metric.
// INVARIANTS:
// - PercentChange is nil exactly when GroupAMean is zero
// - EffectSize is Cohen's d (absolute, pooled SD), zero when pooled SD is zero
// - An error-tagged result carries no numeric fields when serialized
type TTestResult struct {
	Metric        core.MetricKey `json:"metric"`
	Test          string         `json:"test"`
	GroupAMean    float64        `json:"group_a_mean"`
	GroupBMean    float64        `json:"group_b_mean"`
	Difference    float64        `json:"difference"`
	PercentChange *float64       `json:"percent_change"`
	TStatistic    float64        `json:"t_statistic"`
	PValue        float64        `json:"p_value"`
	EffectSize    float64        `json:"effect_size"`
	Significant   bool           `json:"significant"`
	SampleSizeA   int            `json:"sample_size_a"`
	SampleSizeB   int            `json:"sample_size_b"`
	Err           string         `json:"error,omitempty"`
}

// HasError reports whether this result is an error marker rather than a
// computed verdict. Downstream consumers must treat it as "no verdict",
// not "no difference".
func (r TTestResult) HasError() bool {
	return r.Err != ""
}

// MarshalJSON keeps error-tagged results free of numeric fields,
// matching the flat results document layout. A non-finite t-statistic
// (zero spread in both groups with distinct means) serializes as null
// so the document stays portable JSON.
func (r TTestResult) MarshalJSON() ([]byte, error) {
	if r.HasError() {
		return json.Marshal(errorResult{Metric: r.Metric, Test: r.Test, Err: r.Err})
	}
	type plain TTestResult
	if math.IsInf(r.TStatistic, 0) || math.IsNaN(r.TStatistic) {
		return json.Marshal(struct {
			plain
			TStatistic *float64 `json:"t_statistic"`
		}{plain: plain(r)})
	}
	return json.Marshal(plain(r))
}

// RankTestResult is the non-parametric comparison for one metric.
// PercentChange is nil exactly when GroupAMedian is zero.
type RankTestResult struct {
	Metric        core.MetricKey `json:"metric"`
	Test          string         `json:"test"`
	GroupAMedian  float64        `json:"group_a_median"`
	GroupBMedian  float64        `json:"group_b_median"`
	Difference    float64        `json:"difference"`
	PercentChange *float64       `json:"percent_change"`
	UStatistic    float64        `json:"u_statistic"`
	PValue        float64        `json:"p_value"`
	Significant   bool           `json:"significant"`
	SampleSizeA   int            `json:"sample_size_a"`
	SampleSizeB   int            `json:"sample_size_b"`
	Err           string         `json:"error,omitempty"`
}

// HasError reports whether this result is an error marker.
func (r RankTestResult) HasError() bool {
	return r.Err != ""
}

// MarshalJSON keeps error-tagged results free of numeric fields.
func (r RankTestResult) MarshalJSON() ([]byte, error) {
	if r.HasError() {
		return json.Marshal(errorResult{Metric: r.Metric, Test: r.Test, Err: r.Err})
	}
	type plain RankTestResult
	return json.Marshal(plain(r))
}

// errorResult is the serialized shape of an error-tagged result.
type errorResult struct {
	Metric core.MetricKey `json:"metric"`
	Test   string         `json:"test"`
	Err    string         `json:"error"`
}

// ResultSet collects both test families, aligned by metric iteration
// order. It is regenerated whole on every run and passed by value
// between the analysis step and any rendering step.
type ResultSet struct {
	RunID              core.RunID       `json:"run_id,omitempty"`
	GeneratedAt        core.Timestamp   `json:"generated_at"`
	Alpha              float64          `json:"alpha"`
	TTestResults       []TTestResult    `json:"t_test_results"`
	MannWhitneyResults []RankTestResult `json:"mann_whitney_results"`
}

// SignificantTTests returns the t-test results that cleared alpha,
// in metric order. Error-tagged results never qualify.
func (rs *ResultSet) SignificantTTests() []TTestResult {
	var out []TTestResult
	for _, r := range rs.TTestResults {
		if !r.HasError() && r.Significant {
			out = append(out, r)
		}
	}
	return out
}

// SignificantRankTests returns the Mann-Whitney results that cleared alpha.
func (rs *ResultSet) SignificantRankTests() []RankTestResult {
	var out []RankTestResult
	for _, r := range rs.MannWhitneyResults {
		if !r.HasError() && r.Significant {
			out = append(out, r)
		}
	}
	return out
}

// LookupTTest finds the t-test result for a metric.
func (rs *ResultSet) LookupTTest(metric core.MetricKey) (TTestResult, bool) {
	for _, r := range rs.TTestResults {
		if r.Metric == metric {
			return r, true
		}
	}
	return TTestResult{}, false
}

// LookupRankTest finds the Mann-Whitney result for a metric.
func (rs *ResultSet) LookupRankTest(metric core.MetricKey) (RankTestResult, bool) {
	for _, r := range rs.MannWhitneyResults {
		if r.Metric == metric {
			return r, true
		}
	}
	return RankTestResult{}, false
}
