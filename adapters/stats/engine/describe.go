package engine

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"ablab/domain/cohort"
	"ablab/domain/core"
)

// MetricSummary holds descriptive statistics for one metric within one
// group. Std is nil when fewer than 2 values are present.
type MetricSummary struct {
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
}

// Description summarizes a loaded table: sample counts, missing values,
// and per-group descriptive statistics for every metric column.
type Description struct {
	TotalSamples  int                                                  `json:"total_samples"`
	GroupCounts   map[core.GroupLabel]int                              `json:"group_counts"`
	Columns       []core.MetricKey                                     `json:"columns"`
	MissingValues map[core.MetricKey]int                               `json:"missing_values"`
	GroupStats    map[core.GroupLabel]map[core.MetricKey]MetricSummary `json:"group_stats"`
}

// Describe computes the dataset description. Metrics with no usable
// values in a group are omitted from that group's statistics.
func Describe(table *cohort.Table) Description {
	desc := Description{
		TotalSamples:  table.RowCount(),
		GroupCounts:   table.GroupCounts(),
		Columns:       table.Metrics(),
		MissingValues: make(map[core.MetricKey]int),
		GroupStats:    make(map[core.GroupLabel]map[core.MetricKey]MetricSummary),
	}

	for _, metric := range table.Metrics() {
		values, err := table.Column(metric)
		if err != nil {
			continue
		}
		missing := 0
		for _, v := range values {
			if math.IsNaN(v) {
				missing++
			}
		}
		desc.MissingValues[metric] = missing
	}

	for _, group := range []core.GroupLabel{core.GroupA, core.GroupB} {
		groupStats := make(map[core.MetricKey]MetricSummary)
		for _, metric := range table.Metrics() {
			groupA, groupB, err := table.Partition(metric)
			if err != nil {
				continue
			}
			sample := groupA
			if group == core.GroupB {
				sample = groupB
			}
			if len(sample) == 0 {
				continue
			}
			groupStats[metric] = summarize(sample)
		}
		desc.GroupStats[group] = groupStats
	}
	return desc
}

func summarize(sample []float64) MetricSummary {
	mean, _ := mstats.Mean(sample)
	median, _ := mstats.Median(sample)
	min, _ := mstats.Min(sample)
	max, _ := mstats.Max(sample)

	s := MetricSummary{Mean: mean, Median: median, Min: min, Max: max}
	if len(sample) >= 2 {
		std, err := mstats.StandardDeviationSample(sample)
		if err == nil {
			s.Std = &std
		}
	}
	return s
}

// StdErr computes the standard error of the mean, used by the overview
// chart's error bars. Zero when fewer than 2 values are present.
func StdErr(sample []float64) float64 {
	if len(sample) < 2 {
		return 0
	}
	std, err := mstats.StandardDeviationSample(sample)
	if err != nil {
		return 0
	}
	return std / math.Sqrt(float64(len(sample)))
}
