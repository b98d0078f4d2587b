package app

import (
	"ablab/adapters/stats/engine"
	"ablab/adapters/tabular"
	"ablab/domain/cohort"
	"ablab/domain/stats"
	"ablab/internal"
	"ablab/internal/errors"
)

// AnalysisService runs the statistical half of the pipeline: load the
// dataset, describe it, run both tests over every metric, and persist
// the flat artifacts.
type AnalysisService struct{}

// NewAnalysisService creates an analysis service
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

// AnalysisRequest defines the inputs for one analysis run
type AnalysisRequest struct {
	DataFile      string  // input CSV or XLSX
	ProcessedFile string  // optional: processed table output
	ResultsFile   string  // optional: results document output
	Alpha         float64 // significance threshold, default applied when zero
}

// AnalysisResult contains the complete output of an analysis run. The
// result set is carried here as a value for downstream rendering;
// renderers never re-read it from disk.
type AnalysisResult struct {
	Table       *cohort.Table
	Description engine.Description
	Results     *stats.ResultSet
}

// Run executes the analysis pipeline. Per-metric test failures are
// recorded inside the result set; only I/O problems fail the run.
func (s *AnalysisService) Run(req AnalysisRequest) (*AnalysisResult, error) {
	reader := tabular.NewDataReader(req.DataFile)
	table, err := reader.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset from %s", req.DataFile)
	}

	description := engine.Describe(table)
	internal.DefaultLogger.Info("dataset: %d samples, group counts %v",
		description.TotalSamples, description.GroupCounts)

	if req.ProcessedFile != "" {
		if err := tabular.WriteProcessedCSV(table, req.ProcessedFile); err != nil {
			return nil, errors.Wrap(err, "failed to save processed data")
		}
	}

	runner := engine.NewMetricTestRunner(req.Alpha)
	results := runner.AnalyzeAll(table)

	significant := results.SignificantTTests()
	internal.DefaultLogger.Info("found %d significant differences (t-tests) across %d metrics",
		len(significant), len(results.TTestResults))

	if req.ResultsFile != "" {
		if err := SaveResults(results, req.ResultsFile); err != nil {
			return nil, errors.Wrap(err, "failed to save statistical results")
		}
	}

	return &AnalysisResult{
		Table:       table,
		Description: description,
		Results:     results,
	}, nil
}
