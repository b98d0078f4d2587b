package cohort

import "ablab/domain/core"

// KeyMetrics are the headline metrics featured in the overview chart
// and the report table.
var KeyMetrics = []core.MetricKey{
	"Task_Completion_Rate",
	"Button_Click_Rate",
	"Plot_Interactions",
	"Early_Exit_Rate",
	TotalTimeMetric,
}

// FunnelMetrics order the engagement funnel from broad activity down to
// task completion.
var FunnelMetrics = []core.MetricKey{
	"Module_Navigation_Depth",
	"Button_Click_Rate",
	"Plot_Interactions",
	"Task_Completion_Rate",
}
