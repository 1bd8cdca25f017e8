package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/MelanieRosenberg/Town/internal/model"
)

// WriteSummaryCSV overwrites the final summary file with one row per
// deduction bucket plus a grand-total row.
func (s *Store) WriteSummaryCSV(summary model.Summary) error {
	f, err := os.Create(s.paths.SummaryFile())
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Group", "Transactions", "Unique Vendors", "Total Expenses", "Total Deductions"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for _, rate := range model.SummaryRates {
		group := summary.Groups[rate]
		row := []string{
			"deductible: " + rate.Percent(),
			strconv.Itoa(group.Transactions),
			strconv.Itoa(group.Vendors),
			FormatMoney(group.Expenses),
			FormatMoney(group.Deductions),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	totals := []string{
		"total",
		strconv.Itoa(summary.Totals.Transactions),
		strconv.Itoa(summary.Totals.Vendors),
		FormatMoney(summary.Totals.Expenses),
		FormatMoney(summary.Totals.Deductions),
	}
	if err := w.Write(totals); err != nil {
		return fmt.Errorf("failed to write summary totals: %w", err)
	}

	w.Flush()
	return w.Error()
}

// RenderSummary prints the per-bucket rollup as a terminal table.
func RenderSummary(w io.Writer, summary model.Summary) {
	header := color.New(color.Bold)
	bucketColors := map[model.Rate]*color.Color{
		model.RateZero: color.New(color.FgRed),
		model.RateHalf: color.New(color.FgYellow),
		model.RateFull: color.New(color.FgGreen),
	}

	_, _ = header.Fprintf(w, "%-18s %12s %8s %16s %16s\n",
		"Group", "Transactions", "Vendors", "Expenses", "Deductions")

	for _, rate := range model.SummaryRates {
		group := summary.Groups[rate]
		c := bucketColors[rate]
		_, _ = c.Fprintf(w, "%-18s %12d %8d %16s %16s\n",
			"deductible: "+rate.Percent(),
			group.Transactions,
			group.Vendors,
			FormatMoney(group.Expenses),
			FormatMoney(group.Deductions))
	}

	_, _ = header.Fprintf(w, "%-18s %12d %8d %16s %16s\n",
		"total",
		summary.Totals.Transactions,
		summary.Totals.Vendors,
		FormatMoney(summary.Totals.Expenses),
		FormatMoney(summary.Totals.Deductions))

	if summary.Flagged > 0 {
		_, _ = color.New(color.FgRed).Fprintf(w, "warning: %d vendors carried a non-canonical rate and were folded into the 0%% bucket\n", summary.Flagged)
	}
}

// FormatMoney renders a dollar amount with thousands separators.
func FormatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + parts[1]
	if negative {
		return "-" + out
	}
	return out
}
