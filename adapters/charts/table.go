package charts

import (
	"html/template"
	"io"
	"sort"

	"ablab/domain/stats"
)

// tableTemplate renders the statistical significance table as a
// standalone HTML document.
var tableTemplate = template.Must(template.New("stat_table").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Statistical Significance of Metrics</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 6px 12px; text-align: right; }
th { background: #f0f0f5; }
td:first-child { text-align: left; }
tr.significant { background: #e8f4e8; }
</style>
</head>
<body>
<h2>Statistical Significance of Metrics</h2>
<table>
<tr><th>Metric</th><th>Group A Mean</th><th>Group B Mean</th><th>% Change</th><th>p-value</th><th>Significant?</th></tr>
{{- range .Rows}}
<tr{{if .Significant}} class="significant"{{end}}>
<td>{{.Metric}}</td><td>{{.GroupAMean}}</td><td>{{.GroupBMean}}</td><td>{{.PercentChange}}</td><td>{{.PValue}}</td><td>{{.Verdict}}</td>
</tr>
{{- end}}
</table>
</body>
</html>
`))

type tableRow struct {
	Metric        string
	GroupAMean    string
	GroupBMean    string
	PercentChange string
	PValue        string
	Verdict       string
	Significant   bool
}

// RenderStatisticalTable writes the full results table as HTML, sorted
// with significant metrics first and by ascending p-value within each
// block. Error-tagged results are left out: they carry no verdict.
func (r *Renderer) RenderStatisticalTable(w io.Writer, results *stats.ResultSet) error {
	computed := make([]stats.TTestResult, 0, len(results.TTestResults))
	for _, result := range results.TTestResults {
		if !result.HasError() {
			computed = append(computed, result)
		}
	}
	sort.SliceStable(computed, func(i, j int) bool {
		if computed[i].Significant != computed[j].Significant {
			return computed[i].Significant
		}
		return computed[i].PValue < computed[j].PValue
	})

	rows := make([]tableRow, 0, len(computed))
	for _, result := range computed {
		rows = append(rows, tableRow{
			Metric:        result.Metric.Label(),
			GroupAMean:    stats.FormatMean(result.GroupAMean),
			GroupBMean:    stats.FormatMean(result.GroupBMean),
			PercentChange: stats.FormatPercentChange(result.PercentChange),
			PValue:        stats.FormatPValue(result.PValue),
			Verdict:       stats.FormatSignificant(result.Significant),
			Significant:   result.Significant,
		})
	}

	return tableTemplate.Execute(w, struct{ Rows []tableRow }{Rows: rows})
}
