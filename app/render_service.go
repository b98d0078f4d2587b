package app

import (
	"context"

	"ablab/adapters/charts"
	"ablab/adapters/report"
	"ablab/domain/cohort"
	"ablab/domain/stats"
	"ablab/internal/errors"
)

// RenderService turns an in-memory analysis result into charts and an
// updated report. The two steps fail independently: a missing report
// template must not discard the rendered charts.
type RenderService struct{}

// NewRenderService creates a render service
func NewRenderService() *RenderService {
	return &RenderService{}
}

// RenderCharts emits the chart set and returns the written file paths.
func (s *RenderService) RenderCharts(ctx context.Context, table *cohort.Table, results *stats.ResultSet, figuresDir string) ([]string, error) {
	renderer := charts.NewRenderer(figuresDir)
	paths, err := renderer.RenderAll(ctx, table, results)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render charts")
	}
	return paths, nil
}

// UpdateReport stitches the results table and figure references into
// the markdown report.
func (s *RenderService) UpdateReport(results *stats.ResultSet, reportFile string, figurePaths []string) error {
	updater := report.NewUpdater(reportFile)
	if err := updater.Update(results, figurePaths); err != nil {
		return errors.Wrap(err, "failed to update report")
	}
	return nil
}
