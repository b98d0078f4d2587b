package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ablab/domain/cohort"
	"ablab/domain/core"
	"ablab/domain/stats"
	"ablab/internal"
)

// Named insertion points in the report template. Content between a
// begin/end pair is owned by the pipeline and rewritten on every run;
// everything outside the markers belongs to the report author. This
// replaces pattern-matching on the table text itself.
const (
	MarkerResultsTableBegin = "<!-- ablab:results-table -->"
	MarkerResultsTableEnd   = "<!-- /ablab:results-table -->"
	MarkerFiguresBegin      = "<!-- ablab:visualizations -->"
	MarkerFiguresEnd        = "<!-- /ablab:visualizations -->"
)

// Updater stitches statistical results and figure references into the
// markdown report. The template must already exist; a missing template
// fails this step only, never the statistical computation.
type Updater struct {
	ReportPath string
}

// NewUpdater creates a report updater for the given markdown file.
func NewUpdater(reportPath string) *Updater {
	return &Updater{ReportPath: reportPath}
}

// Update rewrites the results table and the visualizations section in
// place. figurePaths are the chart files emitted this run; only their
// base names end up in the report, relative to the figures directory.
func (u *Updater) Update(results *stats.ResultSet, figurePaths []string) error {
	raw, err := os.ReadFile(u.ReportPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrReportTemplateMissing, u.ReportPath)
		}
		return fmt.Errorf("failed to read report: %w", err)
	}
	content := string(raw)

	content, err = replaceBetween(content, MarkerResultsTableBegin, MarkerResultsTableEnd, ResultsTable(results))
	if err != nil {
		return fmt.Errorf("results table: %w", err)
	}

	figSection := figuresSection(figurePaths)
	updated, err := replaceBetween(content, MarkerFiguresBegin, MarkerFiguresEnd, figSection)
	if err == nil {
		content = updated
	} else {
		// No visualization markers yet: append a marked section so the
		// next run can replace it in place.
		content = strings.TrimRight(content, "\n") + "\n\n" +
			MarkerFiguresBegin + "\n" + figSection + "\n" + MarkerFiguresEnd + "\n"
	}

	if err := os.WriteFile(u.ReportPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	internal.DefaultLogger.Info("report updated at %s", u.ReportPath)
	return nil
}

// ResultsTable renders the key-metric results as a markdown table.
// Error-tagged results carry no verdict and are skipped.
func ResultsTable(results *stats.ResultSet) string {
	var b strings.Builder
	b.WriteString("| Metric | Group A Mean | Group B Mean | % Difference | p-value | Significant? |\n")
	b.WriteString("|--------|--------------|--------------|--------------|---------|--------------|\n")

	for _, metric := range cohort.KeyMetrics {
		result, ok := results.LookupTTest(metric)
		if !ok || result.HasError() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			metric,
			stats.FormatMean(result.GroupAMean),
			stats.FormatMean(result.GroupBMean),
			stats.FormatPercentChange(result.PercentChange),
			stats.FormatPValue(result.PValue),
			stats.FormatSignificant(result.Significant),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// figuresSection builds the visualizations section from the figure
// files written this run.
func figuresSection(figurePaths []string) string {
	byName := make(map[string]string, len(figurePaths))
	var metricFigures []string
	for _, p := range figurePaths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		byName[name] = filepath.Base(p)
		if strings.HasPrefix(name, "metric_") {
			metricFigures = append(metricFigures, name)
		}
	}

	var b strings.Builder
	b.WriteString("## Visualizations\n\n")
	b.WriteString("The following visualizations illustrate the key findings from the A/B test:\n\n")

	if f, ok := byName["metrics_overview"]; ok {
		b.WriteString("### Overview of Key Metrics\n\n")
		fmt.Fprintf(&b, "[Metrics Overview](figures/%s)\n\n", f)
		b.WriteString("Compares the key metrics between Group A and Group B, showing mean values with standard errors.\n\n")
	}
	if f, ok := byName["significant_metrics"]; ok {
		b.WriteString("### Significant Percentage Changes\n\n")
		fmt.Fprintf(&b, "[Significant Metrics](figures/%s)\n\n", f)
		b.WriteString("Percentage change in metrics with statistically significant differences between groups.\n\n")
	}
	if f, ok := byName["time_spent"]; ok {
		b.WriteString("### Time Spent by Section\n\n")
		fmt.Fprintf(&b, "[Time Spent](figures/%s)\n\n", f)
		b.WriteString("Average time spent in each section of the application per group.\n\n")
	}
	if f, ok := byName["engagement_funnel"]; ok {
		b.WriteString("### User Engagement Funnel\n\n")
		fmt.Fprintf(&b, "[Engagement Funnel](figures/%s)\n\n", f)
		b.WriteString("How users progress through the stages of engagement with the application.\n\n")
	}

	// Individual metric charts, capped to keep the section readable.
	if len(metricFigures) > 0 {
		b.WriteString("### Individual Metric Comparisons\n\n")
		limit := len(metricFigures)
		if limit > 3 {
			limit = 3
		}
		for _, name := range metricFigures[:limit] {
			clean := titleCase(strings.ReplaceAll(strings.TrimPrefix(name, "metric_"), "_", " "))
			fmt.Fprintf(&b, "[%s](figures/%s)\n\n", clean, byName[name])
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// replaceBetween swaps the content between two markers, keeping the
// markers themselves.
func replaceBetween(content, begin, end, replacement string) (string, error) {
	start := strings.Index(content, begin)
	if start < 0 {
		return "", fmt.Errorf("%w: %s", core.ErrMarkerNotFound, begin)
	}
	rest := content[start+len(begin):]
	stop := strings.Index(rest, end)
	if stop < 0 {
		return "", fmt.Errorf("%w: %s", core.ErrMarkerNotFound, end)
	}
	return content[:start+len(begin)] + "\n" + replacement + "\n" + rest[stop:], nil
}

// RenderHTML converts the report markdown to HTML for the report server.
func RenderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.Render(doc, renderer)
}
