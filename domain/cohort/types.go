package cohort

import (
	"math"

	"ablab/domain/core"
)

// Observation is one row of the experiment dataset: a subject, the arm
// it was assigned to, and its metric values. Missing values are NaN.
type Observation struct {
	ID      string
	Group   core.GroupLabel
	Metrics map[core.MetricKey]float64
}

// Table holds a cohort dataset in source column order. Metric iteration
// order is fixed at construction (plus any derived columns appended
// later), which downstream result collections rely on for alignment.
type Table struct {
	IDColumn    string
	GroupColumn string

	metricOrder []core.MetricKey
	columns     map[core.MetricKey][]float64
	groups      []core.GroupLabel
	ids         []string
}

// NewTable creates an empty table with the given identifier/group column
// names and metric column order.
func NewTable(idColumn, groupColumn string, metrics []core.MetricKey) *Table {
	columns := make(map[core.MetricKey][]float64, len(metrics))
	for _, m := range metrics {
		columns[m] = nil
	}
	order := make([]core.MetricKey, len(metrics))
	copy(order, metrics)
	return &Table{
		IDColumn:    idColumn,
		GroupColumn: groupColumn,
		metricOrder: order,
		columns:     columns,
	}
}

// Append adds one observation. Metrics absent from the observation are
// stored as NaN so they drop out at partition time.
func (t *Table) Append(o Observation) {
	t.ids = append(t.ids, o.ID)
	t.groups = append(t.groups, o.Group)
	for _, m := range t.metricOrder {
		v, ok := o.Metrics[m]
		if !ok {
			v = math.NaN()
		}
		t.columns[m] = append(t.columns[m], v)
	}
}

// AddDerivedColumn appends a computed column after the source columns.
// The value slice must be row-aligned with the table.
func (t *Table) AddDerivedColumn(key core.MetricKey, values []float64) error {
	if len(values) != t.RowCount() {
		return core.NewValidationError(key.String(), "derived column length does not match row count")
	}
	if _, exists := t.columns[key]; exists {
		return core.NewValidationError(key.String(), "column already exists")
	}
	t.metricOrder = append(t.metricOrder, key)
	t.columns[key] = values
	return nil
}

// Metrics returns the metric keys in iteration order. The identifier
// and group columns are not metrics and never appear here.
func (t *Table) Metrics() []core.MetricKey {
	out := make([]core.MetricKey, len(t.metricOrder))
	copy(out, t.metricOrder)
	return out
}

// Column returns the raw values (NaN included) for a metric.
func (t *Table) Column(key core.MetricKey) ([]float64, error) {
	values, ok := t.columns[key]
	if !ok {
		return nil, core.NewColumnNotFoundError(key.String())
	}
	return values, nil
}

// Partition splits a metric column into the two group samples, dropping
// missing values. Row order within each group is preserved.
func (t *Table) Partition(key core.MetricKey) (groupA, groupB []float64, err error) {
	values, ok := t.columns[key]
	if !ok {
		return nil, nil, core.NewColumnNotFoundError(key.String())
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		switch t.groups[i] {
		case core.GroupA:
			groupA = append(groupA, v)
		case core.GroupB:
			groupB = append(groupB, v)
		}
	}
	return groupA, groupB, nil
}

// RowCount returns the number of observations.
func (t *Table) RowCount() int {
	return len(t.groups)
}

// ColumnCount returns the number of metric columns.
func (t *Table) ColumnCount() int {
	return len(t.metricOrder)
}

// Groups returns the per-row group labels.
func (t *Table) Groups() []core.GroupLabel {
	return t.groups
}

// IDs returns the per-row subject identifiers.
func (t *Table) IDs() []string {
	return t.ids
}

// GroupCounts returns the number of rows per group label.
func (t *Table) GroupCounts() map[core.GroupLabel]int {
	counts := make(map[core.GroupLabel]int, 2)
	for _, g := range t.groups {
		counts[g]++
	}
	return counts
}

// Row reconstructs one observation, including derived columns.
func (t *Table) Row(i int) Observation {
	metrics := make(map[core.MetricKey]float64, len(t.metricOrder))
	for _, m := range t.metricOrder {
		metrics[m] = t.columns[m][i]
	}
	return Observation{ID: t.ids[i], Group: t.groups[i], Metrics: metrics}
}
