package stats

import "fmt"

// Display formatting shared by the report table and the HTML table:
// 2-decimal central tendencies, signed 2-decimal percent change,
// 4-decimal p-values, Yes/No significance.

// FormatMean formats a group mean or median for display.
func FormatMean(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatPercentChange formats a percent change with an explicit sign.
// An undefined change (zero reference) renders as N/A, never as Inf.
func FormatPercentChange(pc *float64) string {
	if pc == nil {
		return "N/A"
	}
	if *pc > 0 {
		return fmt.Sprintf("+%.2f%%", *pc)
	}
	return fmt.Sprintf("%.2f%%", *pc)
}

// FormatPValue formats a p-value for display.
func FormatPValue(p float64) string {
	return fmt.Sprintf("%.4f", p)
}

// FormatSignificant renders the significance flag as Yes/No.
func FormatSignificant(significant bool) string {
	if significant {
		return "Yes"
	}
	return "No"
}
