package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelanieRosenberg/Town/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAggregator_RatePropagation(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: "Starbucks", DeductionRate: model.RateHalf},
		{VendorName: "XYZ Club", DeductionRate: model.RateZero},
		{VendorName: "Holiday Party Co", DeductionRate: model.RateFull},
	}
	expenses := []model.Expense{
		{Date: "2024-01-02", Name: "Starbucks", Amount: -10.00, ExpenseID: 1},
		{Date: "2024-01-03", Name: "Starbucks", Amount: -20.00, ExpenseID: 2},
		{Date: "2024-01-04", Name: "XYZ Club", Amount: -100.00, ExpenseID: 3},
		{Date: "2024-01-05", Name: "Holiday Party Co", Amount: -200.00, ExpenseID: 4},
	}

	out := NewAggregator(discardLogger()).Aggregate(vendors, expenses)

	require.Len(t, out.Expenses, 4)
	for _, e := range out.Expenses {
		if e.Vendor == "Starbucks" {
			assert.Equal(t, model.RateHalf, e.DeductionRate)
			assert.Equal(t, e.Amount*0.5, e.DeductibleAmount)
		}
	}

	half := out.Summary.Groups[model.RateHalf]
	assert.Equal(t, 2, half.Transactions)
	assert.Equal(t, 1, half.Vendors)
	assert.InDelta(t, 30.00, half.Expenses, 1e-9)
	assert.InDelta(t, 15.00, half.Deductions, 1e-9)

	full := out.Summary.Groups[model.RateFull]
	assert.InDelta(t, 200.00, full.Deductions, 1e-9)

	assert.Equal(t, 4, out.Summary.Totals.Transactions)
	assert.Equal(t, 3, out.Summary.Totals.Vendors)
	assert.InDelta(t, 330.00, out.Summary.Totals.Expenses, 1e-9)
	assert.InDelta(t, 215.00, out.Summary.Totals.Deductions, 1e-9)
}

func TestAggregator_ZeroBucketDeductionsAreZero(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: "XYZ Club", DeductionRate: model.RateZero},
		{VendorName: "Soho House", DeductionRate: model.RateZero},
	}
	expenses := []model.Expense{
		{Name: "XYZ Club", Amount: 123.45, ExpenseID: 1},
		{Name: "Soho House", Amount: 999.99, ExpenseID: 2},
	}

	out := NewAggregator(discardLogger()).Aggregate(vendors, expenses)

	zero := out.Summary.Groups[model.RateZero]
	assert.Equal(t, float64(0), zero.Deductions)
	assert.InDelta(t, 1123.44, zero.Expenses, 1e-9)
	for _, e := range out.Expenses {
		assert.Equal(t, float64(0), e.DeductibleAmount)
	}
}

func TestAggregator_UnknownVendorMatchesBySurrogateID(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: model.UnknownVendorKey(7), DeductionRate: model.RateHalf, ExpenseID: 7},
		{VendorName: model.UnknownVendorKey(9), DeductionRate: model.RateZero, ExpenseID: 9},
	}
	expenses := []model.Expense{
		{Date: "2024-02-01", Name: "", Description: "lunch", Amount: 40, ExpenseID: 7},
		{Date: "2024-02-02", Name: "", Description: "tickets", Amount: 60, ExpenseID: 9},
	}

	out := NewAggregator(discardLogger()).Aggregate(vendors, expenses)

	require.Len(t, out.Expenses, 2)
	assert.Equal(t, model.UnknownVendorKey(7), out.Expenses[0].Vendor)
	assert.Equal(t, model.RateHalf, out.Expenses[0].DeductionRate)
	assert.Equal(t, 7, out.Expenses[0].ExpenseID)
	assert.Equal(t, model.RateZero, out.Expenses[1].DeductionRate)

	// Each unknown-vendor key claims exactly one transaction.
	assert.Equal(t, 1, out.Summary.Groups[model.RateHalf].Transactions)
	assert.Equal(t, 1, out.Summary.Groups[model.RateZero].Transactions)
}

func TestAggregator_NonCanonicalRateFlaggedAndZeroed(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: "Weird Vendor", DeductionRate: model.Rate(0.75)},
	}
	expenses := []model.Expense{
		{Name: "Weird Vendor", Amount: 100, ExpenseID: 1},
	}

	out := NewAggregator(discardLogger()).Aggregate(vendors, expenses)

	assert.Equal(t, 1, out.Summary.Flagged)
	require.Len(t, out.Expenses, 1)
	assert.Equal(t, model.RateZero, out.Expenses[0].DeductionRate)
	assert.Equal(t, float64(0), out.Summary.Groups[model.RateZero].Deductions)
	assert.Contains(t, out.VendorsByRate[model.RateZero], "Weird Vendor")
}

func TestAggregator_VendorsByRateBuckets(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: "Starbucks", DeductionRate: model.RateHalf},
		{VendorName: "XYZ Club", DeductionRate: model.RateZero},
		{VendorName: "Holiday Party Co", DeductionRate: model.RateFull},
		{VendorName: "Dunkin", DeductionRate: model.RateHalf},
	}

	out := NewAggregator(discardLogger()).Aggregate(vendors, nil)

	assert.Equal(t, []string{"Starbucks", "Dunkin"}, out.VendorsByRate[model.RateHalf])
	assert.Equal(t, []string{"XYZ Club"}, out.VendorsByRate[model.RateZero])
	assert.Equal(t, []string{"Holiday Party Co"}, out.VendorsByRate[model.RateFull])
}

func TestAggregator_RecomputeIsDeterministic(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: "Starbucks", DeductionRate: model.RateHalf},
		{VendorName: "XYZ Club", DeductionRate: model.RateZero},
	}
	expenses := []model.Expense{
		{Name: "Starbucks", Amount: 12.34, ExpenseID: 1},
		{Name: "XYZ Club", Amount: 56.78, ExpenseID: 2},
	}

	agg := NewAggregator(discardLogger())
	first := agg.Aggregate(vendors, expenses)
	second := agg.Aggregate(vendors, expenses)

	assert.Equal(t, first, second)
}

func TestAggregator_VendorWithNoExpenses(t *testing.T) {
	vendors := []model.ClassificationResult{
		{VendorName: "Ghost Vendor", DeductionRate: model.RateHalf},
	}

	out := NewAggregator(discardLogger()).Aggregate(vendors, nil)

	assert.Empty(t, out.Expenses)
	group := out.Summary.Groups[model.RateHalf]
	assert.Equal(t, 1, group.Vendors)
	assert.Equal(t, 0, group.Transactions)
	assert.Equal(t, float64(0), group.Deductions)
}
