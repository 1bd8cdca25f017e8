package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MelanieRosenberg/Town/internal/evaluate"
	"github.com/MelanieRosenberg/Town/internal/ledger"
)

func prepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare <company>",
		Short: "Extract expenses and unique vendors from the ledger export",
		Long: `Read the company's xlsx ledger export, select the meals-and-entertainment
expense rows per the configured filter, and write the intermediate files the
classify step consumes.

The ledger file is expected at data/inputs/company<ID>/Company <ID>.xlsx.`,
		Args: cobra.ExactArgs(1),
		RunE: runPrepare,
	}
}

func runPrepare(_ *cobra.Command, args []string) error {
	companyID := args[0]

	cc, err := loadCompanyContext(companyID)
	if err != nil {
		return err
	}
	paths := cc.store.Paths()

	slog.Info("Preparing company ledger", "company", companyID, "input", paths.InputFile())

	rows, err := ledger.ReadWorkbook(paths.InputFile(), cc.company.ColumnNames, cc.company.SkipRows)
	if err != nil {
		return err
	}

	expenses := ledger.SelectExpenses(rows, cc.company.Filter, slog.Default())
	vendors := ledger.UniqueVendors(expenses)

	if err := cc.store.SaveExpenses(expenses); err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	if err := cc.store.SaveVendors(vendors); err != nil {
		return fmt.Errorf("failed to save vendors: %w", err)
	}

	if cc.company.EvalSet {
		evalVendors, evalErr := evaluate.ReadEvalSet(paths.InputFile())
		if evalErr != nil {
			slog.Warn("no evaluation set extracted", "error", evalErr)
		} else if err := cc.store.SaveEvalSet(evalVendors); err != nil {
			return fmt.Errorf("failed to save evaluation set: %w", err)
		} else {
			slog.Info("Extracted evaluation set", "vendors", len(evalVendors))
		}
	}

	slog.Info("Prepare complete",
		"company", companyID,
		"rows", len(rows),
		"expenses", len(expenses),
		"vendors", len(vendors),
		"output", paths.IntermediatesDir())

	return nil
}
