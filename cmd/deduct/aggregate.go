package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MelanieRosenberg/Town/internal/engine"
	"github.com/MelanieRosenberg/Town/internal/store"
)

func aggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate <company>",
		Short: "Propagate vendor rates to transactions and build the summary",
		Long: `Attach each classified vendor's deduction rate to its transactions,
write the per-rate vendor lists, and rebuild the final summary from scratch.
Rerunning is safe: every output file is fully recomputed and overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: runAggregate,
	}
}

func runAggregate(_ *cobra.Command, args []string) error {
	companyID := args[0]

	cc, err := loadCompanyContext(companyID)
	if err != nil {
		return err
	}

	vendors, err := cc.store.LoadClassifiedVendors()
	if err != nil {
		return err
	}
	expenses, err := cc.store.LoadExpenses()
	if err != nil {
		return err
	}

	out := engine.NewAggregator(slog.Default()).Aggregate(vendors, expenses)

	if err := cc.store.SaveClassifiedExpenses(out.Expenses); err != nil {
		return fmt.Errorf("failed to save classified expenses: %w", err)
	}
	if err := cc.store.SaveVendorsByRate(out.VendorsByRate); err != nil {
		return fmt.Errorf("failed to save vendor rate lists: %w", err)
	}
	if err := cc.store.WriteSummaryCSV(out.Summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	store.RenderSummary(os.Stdout, out.Summary)

	slog.Info("Aggregation complete",
		"company", companyID,
		"vendors", len(vendors),
		"classified_expenses", len(out.Expenses),
		"summary", cc.store.Paths().SummaryFile())

	return nil
}
