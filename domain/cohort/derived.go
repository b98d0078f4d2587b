package cohort

import (
	"encoding/json"
	"math"
	"strings"

	"ablab/domain/core"
)

// TimeSpentColumn is the source column holding a serialized
// section→seconds map for each subject.
const TimeSpentColumn = "Time_Spent"

// TotalTimeMetric is the derived column summing all sections.
const TotalTimeMetric = core.MetricKey("Total_Time_Spent")

// Sections are the app areas broken out into per-section time columns.
var Sections = []string{
	"data_upload",
	"data_cleaning",
	"feature_engineering",
	"exploratory_analysis",
}

// SectionMetric returns the derived column key for one section.
func SectionMetric(section string) core.MetricKey {
	return core.MetricKey("Time_" + section)
}

// ParseTimeBreakdown parses the serialized time map. The source data
// uses single-quoted keys, so quotes are normalized before decoding.
func ParseTimeBreakdown(raw string) (map[string]float64, error) {
	normalized := strings.ReplaceAll(raw, "'", `"`)
	breakdown := make(map[string]float64)
	if err := json.Unmarshal([]byte(normalized), &breakdown); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// TotalTime sums every section in a breakdown.
func TotalTime(breakdown map[string]float64) float64 {
	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	return total
}

// AttachTimeColumns derives Total_Time_Spent and one Time_<section>
// column per known section from the raw breakdown strings. A missing or
// unparsable breakdown yields NaN, never zero: the test runner must see
// those rows as dropped values.
func AttachTimeColumns(t *Table, raw []string) error {
	totals := make([]float64, len(raw))
	sectionValues := make(map[string][]float64, len(Sections))
	for _, s := range Sections {
		sectionValues[s] = make([]float64, len(raw))
	}

	for i, r := range raw {
		breakdown, err := ParseTimeBreakdown(r)
		if err != nil {
			totals[i] = math.NaN()
			for _, s := range Sections {
				sectionValues[s][i] = math.NaN()
			}
			continue
		}
		totals[i] = TotalTime(breakdown)
		for _, s := range Sections {
			if v, ok := breakdown[s]; ok {
				sectionValues[s][i] = v
			} else {
				sectionValues[s][i] = math.NaN()
			}
		}
	}

	if err := t.AddDerivedColumn(TotalTimeMetric, totals); err != nil {
		return err
	}
	for _, s := range Sections {
		if err := t.AddDerivedColumn(SectionMetric(s), sectionValues[s]); err != nil {
			return err
		}
	}
	return nil
}
