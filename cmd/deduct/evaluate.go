package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MelanieRosenberg/Town/internal/evaluate"
)

func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <company>",
		Short: "Score classifications against the known zero-deductible set",
		Args:  cobra.ExactArgs(1),
		RunE:  runEvaluate,
	}
}

func runEvaluate(_ *cobra.Command, args []string) error {
	companyID := args[0]

	cc, err := loadCompanyContext(companyID)
	if err != nil {
		return err
	}

	if !cc.company.EvalSet {
		slog.Info("Evaluation skipped: no evaluation set configured for company", "company", companyID)
		return nil
	}

	knownZero, err := cc.store.LoadEvalSet()
	if err != nil {
		return err
	}
	results, err := cc.store.LoadClassifiedVendors()
	if err != nil {
		return err
	}

	report := evaluate.ZeroDeductibleAccuracy(results, knownZero)

	fmt.Println("\nZero Deductible Classification Evaluation:")
	fmt.Printf("Total known zero deductible vendors: %d\n", report.Total)
	fmt.Printf("Correctly classified as zero deductible: %d\n", report.Correct)
	color.New(color.Bold).Printf("Accuracy: %.1f%%\n", report.Accuracy)

	if len(report.Misses) > 0 {
		color.New(color.FgRed).Println("\nIncorrectly classified vendors:")
		for _, miss := range report.Misses {
			fmt.Printf("\nVendor: %s\n", miss.Vendor)
			fmt.Printf("Classified as: %s deductible\n", miss.ClassifiedRate.Percent())
			fmt.Printf("Reason: %s\n", miss.Reason)
		}
	}

	return nil
}
