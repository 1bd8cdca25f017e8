package engine

import (
	"log/slog"

	"github.com/MelanieRosenberg/Town/internal/model"
)

// AggregateOutput is everything the aggregation step derives from a set of
// classified vendors and the full expense list.
type AggregateOutput struct {
	Expenses      []model.ClassifiedExpense
	VendorsByRate map[model.Rate][]string
	Summary       model.Summary
}

// Aggregator propagates vendor-level deduction rates down to every matching
// transaction and computes the per-bucket rollup. It reads classification
// results as immutable input and owns the classified-expense lifecycle.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate attaches each vendor's rate to its expenses and recomputes the
// summary from scratch. Known vendors match expenses by exact name
// equality; synthetic unknown-vendor keys match only the single expense
// with the stored surrogate id, so unrelated unknown-vendor transactions
// never inherit each other's rate.
func (a *Aggregator) Aggregate(vendors []model.ClassificationResult, expenses []model.Expense) AggregateOutput {
	out := AggregateOutput{
		VendorsByRate: make(map[model.Rate][]string, len(model.SummaryRates)),
		Summary:       model.NewSummary(),
	}

	for _, vendor := range vendors {
		rate := vendor.DeductionRate
		if !rate.Valid() {
			// Contract violation upstream; fold into the 0% bucket and
			// flag rather than crash.
			a.logger.Warn("vendor carries non-canonical deduction rate, treating as 0%",
				"vendor", vendor.VendorName,
				"rate", float64(rate))
			out.Summary.Flagged++
			rate = model.RateZero
		}

		matched := a.matchExpenses(vendor, expenses)

		for _, e := range matched {
			classified := model.NewClassifiedExpense(e, vendor.VendorName, rate)
			classified.Date = e.Date
			if vendor.ExpenseID != 0 {
				classified.ExpenseID = e.ExpenseID
			}
			out.Expenses = append(out.Expenses, classified)
		}

		out.VendorsByRate[rate] = append(out.VendorsByRate[rate], vendor.VendorName)

		group := out.Summary.Groups[rate]
		group.Vendors++
		for _, e := range matched {
			group.Transactions++
			group.Expenses += absAmount(e.Amount)
		}
		// The 0% bucket's deduction total is the constant zero by
		// definition, not a computation that happens to come out to zero.
		if rate != model.RateZero {
			group.Deductions = group.Expenses * float64(rate)
		}
		out.Summary.Groups[rate] = group
	}

	for _, rate := range model.SummaryRates {
		group := out.Summary.Groups[rate]
		out.Summary.Totals.Transactions += group.Transactions
		out.Summary.Totals.Vendors += group.Vendors
		out.Summary.Totals.Expenses += group.Expenses
		out.Summary.Totals.Deductions += group.Deductions
	}

	return out
}

// matchExpenses selects the expenses belonging to a classified vendor.
func (a *Aggregator) matchExpenses(vendor model.ClassificationResult, expenses []model.Expense) []model.Expense {
	var matched []model.Expense

	if vendor.ExpenseID != 0 {
		// Unknown-vendor surrogate key: one-to-one by row id.
		for _, e := range expenses {
			if e.ExpenseID == vendor.ExpenseID {
				matched = append(matched, e)
				break
			}
		}
		return matched
	}

	// Known vendor: exact string match against the ledger Name field.
	for _, e := range expenses {
		if e.Name == vendor.VendorName {
			matched = append(matched, e)
		}
	}
	return matched
}

func absAmount(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
