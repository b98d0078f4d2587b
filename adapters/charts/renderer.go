package charts

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"ablab/adapters/stats/engine"
	"ablab/domain/cohort"
	"ablab/domain/core"
	"ablab/domain/stats"
	"ablab/internal"
)

// Group colors follow the original report palette.
const (
	colorGroupA = "#636EFA"
	colorGroupB = "#EF553B"
)

// Renderer emits the comparison charts as standalone HTML documents.
// It is a pure function of the table and result set handed to it; it
// never reads previously written results back from disk.
type Renderer struct {
	OutputDir string
}

// NewRenderer creates a chart renderer writing into outputDir.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{OutputDir: outputDir}
}

// RenderAll emits the full chart set: the overview page, one comparison
// chart per significant metric, the time-spent chart, the engagement
// funnel, the significant-metrics chart, and the statistical table.
// Charts are independent of each other, so they render concurrently.
// Returns the paths of all written files.
func (r *Renderer) RenderAll(ctx context.Context, table *cohort.Table, results *stats.ResultSet) ([]string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create figures directory: %w", err)
	}

	type job struct {
		name   string
		render func(io.Writer) error
	}

	jobs := []job{
		{"metrics_overview", func(w io.Writer) error { return r.MetricsOverview(table, cohort.KeyMetrics).Render(w) }},
		{"time_spent", func(w io.Writer) error { return r.TimeSpentChart(table).Render(w) }},
		{"engagement_funnel", func(w io.Writer) error { return r.EngagementFunnel(table).Render(w) }},
		{"significant_metrics", func(w io.Writer) error { return r.SignificantMetricsChart(results).Render(w) }},
		{"statistical_table", func(w io.Writer) error { return r.RenderStatisticalTable(w, results) }},
	}
	for _, result := range results.SignificantTTests() {
		metric := result.Metric
		jobs = append(jobs, job{
			name:   "metric_" + strings.ToLower(metric.String()),
			render: func(w io.Writer) error { return r.MetricComparison(table, metric).Render(w) },
		})
	}

	paths := make([]string, len(jobs))
	g, _ := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			path := filepath.Join(r.OutputDir, j.name+".html")
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()
			if err := j.render(f); err != nil {
				return fmt.Errorf("failed to render %s: %w", j.name, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	internal.DefaultLogger.Info("rendered %d charts into %s", len(paths), r.OutputDir)
	return paths, nil
}

// MetricComparison builds a box plot comparing one metric between the
// groups, with the group means overlaid as scatter markers.
func (r *Renderer) MetricComparison(table *cohort.Table, metric core.MetricKey) *charts.BoxPlot {
	groupA, groupB, _ := table.Partition(metric)

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Comparison of %s Between Groups", metric.Label()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: metric.Label()}),
	)
	box.SetXAxis([]string{"A", "B"}).AddSeries("distribution", []opts.BoxPlotData{
		{Name: "A", Value: fiveNumber(groupA)},
		{Name: "B", Value: fiveNumber(groupB)},
	})

	scatter := charts.NewScatter()
	scatter.SetXAxis([]string{"A", "B"}).AddSeries("mean", []opts.ScatterData{
		{Value: mean(groupA), Symbol: "diamond", SymbolSize: 12},
		{Value: mean(groupB), Symbol: "diamond", SymbolSize: 12},
	})
	box.Overlap(scatter)
	return box
}

// MetricsOverview builds one bar chart per key metric (group means with
// the standard error noted in the subtitle) on a single page.
func (r *Renderer) MetricsOverview(table *cohort.Table, metrics []core.MetricKey) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Comparison of Key Metrics Between Groups"

	for _, metric := range metrics {
		groupA, groupB, err := table.Partition(metric)
		if err != nil {
			continue
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title: metric.Label(),
				Subtitle: fmt.Sprintf("std err: A=%.3f, B=%.3f",
					engine.StdErr(groupA), engine.StdErr(groupB)),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		)
		bar.SetXAxis([]string{"A", "B"}).AddSeries("mean", []opts.BarData{
			{Value: mean(groupA), ItemStyle: &opts.ItemStyle{Color: colorGroupA}},
			{Value: mean(groupB), ItemStyle: &opts.ItemStyle{Color: colorGroupB}},
		})
		page.AddCharts(bar)
	}
	return page
}

// TimeSpentChart builds a grouped bar chart of the average time spent
// per app section for each group.
func (r *Renderer) TimeSpentChart(table *cohort.Table) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Average Time Spent by Section"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(cohort.Sections))
	seriesA := make([]opts.BarData, len(cohort.Sections))
	seriesB := make([]opts.BarData, len(cohort.Sections))
	for i, section := range cohort.Sections {
		labels[i] = strings.ReplaceAll(section, "_", " ")
		groupA, groupB, err := table.Partition(cohort.SectionMetric(section))
		if err != nil {
			continue
		}
		seriesA[i] = opts.BarData{Value: mean(groupA)}
		seriesB[i] = opts.BarData{Value: mean(groupB)}
	}

	bar.SetXAxis(labels).
		AddSeries("Group A", seriesA, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorGroupA})).
		AddSeries("Group B", seriesB, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorGroupB}))
	return bar
}

// EngagementFunnel builds the engagement funnel, one series per group,
// from broad navigation down to task completion.
func (r *Renderer) EngagementFunnel(table *cohort.Table) *charts.Funnel {
	funnel := charts.NewFunnel()
	funnel.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "User Engagement Funnel"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	dataA := make([]opts.FunnelData, 0, len(cohort.FunnelMetrics))
	dataB := make([]opts.FunnelData, 0, len(cohort.FunnelMetrics))
	for _, metric := range cohort.FunnelMetrics {
		groupA, groupB, err := table.Partition(metric)
		if err != nil {
			continue
		}
		dataA = append(dataA, opts.FunnelData{Name: metric.Label(), Value: mean(groupA)})
		dataB = append(dataB, opts.FunnelData{Name: metric.Label(), Value: mean(groupB)})
	}

	funnel.AddSeries("Group A", dataA).AddSeries("Group B", dataB)
	return funnel
}

// SignificantMetricsChart builds a bar chart of the percent change for
// every significant t-test metric, sorted by absolute change. This is
// the one emitter that sorts; the result set itself stays in metric
// order.
func (r *Renderer) SignificantMetricsChart(results *stats.ResultSet) *charts.Bar {
	significant := results.SignificantTTests()
	sort.SliceStable(significant, func(i, j int) bool {
		return absChange(significant[i]) > absChange(significant[j])
	})

	labels := make([]string, 0, len(significant))
	data := make([]opts.BarData, 0, len(significant))
	for _, result := range significant {
		if result.PercentChange == nil {
			continue
		}
		change := *result.PercentChange
		color := colorGroupA
		if change < 0 {
			color = colorGroupB
		}
		labels = append(labels, result.Metric.Label())
		data = append(data, opts.BarData{Value: change, ItemStyle: &opts.ItemStyle{Color: color}})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Significant Percentage Changes (Group B vs Group A)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "% change"}),
	)
	bar.SetXAxis(labels).AddSeries("percent change", data)
	return bar
}

func absChange(r stats.TTestResult) float64 {
	if r.PercentChange == nil {
		return 0
	}
	return math.Abs(*r.PercentChange)
}

// fiveNumber returns [min, Q1, median, Q3, max] for a box plot series.
func fiveNumber(sample []float64) []float64 {
	if len(sample) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	min, _ := mstats.Min(sample)
	max, _ := mstats.Max(sample)
	median, _ := mstats.Median(sample)
	q1, q3 := median, median
	if quartiles, err := mstats.Quartile(sample); err == nil {
		q1, q3 = quartiles.Q1, quartiles.Q3
	}
	return []float64{min, q1, median, q3, max}
}

func mean(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	m, _ := mstats.Mean(sample)
	return m
}
