package model

// SummaryGroup holds the per-bucket totals for one deduction rate.
type SummaryGroup struct {
	Transactions int     `json:"transactions"`
	Vendors      int     `json:"vendors"`
	Expenses     float64 `json:"expenses"`
	Deductions   float64 `json:"deductions"`
}

// Summary is the derived per-rate rollup of a classified run. It is fully
// recomputed on every aggregation; there is no incremental state.
type Summary struct {
	Groups  map[Rate]SummaryGroup `json:"groups"`
	Totals  SummaryGroup          `json:"totals"`
	Flagged int                   `json:"flagged"`
}

// SummaryRates is the fixed bucket order used by reports.
var SummaryRates = []Rate{RateZero, RateHalf, RateFull}

// NewSummary returns a summary with all three buckets present and zeroed.
func NewSummary() Summary {
	groups := make(map[Rate]SummaryGroup, len(SummaryRates))
	for _, r := range SummaryRates {
		groups[r] = SummaryGroup{}
	}
	return Summary{Groups: groups}
}
