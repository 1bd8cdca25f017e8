package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MelanieRosenberg/Town/internal/engine"
	"github.com/MelanieRosenberg/Town/internal/model"
	"github.com/MelanieRosenberg/Town/internal/oracle"
	"github.com/MelanieRosenberg/Town/internal/pattern"
	"github.com/MelanieRosenberg/Town/internal/storage"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <company>",
		Short: "Classify vendors or expenses",
		Long: `Classify the prepared units through the layered policy: deterministic
keyword patterns first, the external oracle for whatever remains, and a
conservative zero-deduction default whenever the oracle fails.

Examples:
  deduct classify A                        # classify unique vendors
  deduct classify A --kind expenses        # classify individual expense rows
  deduct classify A --batch-size 5         # smaller oracle batches`,
		Args: cobra.ExactArgs(1),
		RunE: runClassifyCmd,
	}

	cmd.Flags().String("kind", "vendors", "unit kind to classify (vendors, expenses)")
	cmd.Flags().Int("batch-size", 10, "units per oracle call")

	_ = viper.BindPFlag("classification.kind", cmd.Flags().Lookup("kind"))
	_ = viper.BindPFlag("classification.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runClassifyCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	companyID := args[0]

	kind := model.UnitKind(viper.GetString("classification.kind"))
	if !kind.Valid() {
		return fmt.Errorf("invalid unit kind: %s (use vendors or expenses)", kind)
	}
	batchSize := viper.GetInt("classification.batch_size")

	cc, err := loadCompanyContext(companyID)
	if err != nil {
		return err
	}

	units, err := loadUnits(cc, kind)
	if err != nil {
		return err
	}

	client, err := oracle.NewClient(cc.cfg.Oracle)
	if err != nil {
		return fmt.Errorf("failed to create oracle client: %w", err)
	}
	adapter := oracle.NewAdapter(client, cc.cfg.Oracle, slog.Default())

	// The audit log is best-effort; the JSON outputs are the artifacts.
	var auditor engine.Auditor
	audit, err := storage.NewAuditLog(cc.cfg.AuditDB)
	if err != nil {
		slog.Warn("audit log unavailable, continuing without it", "error", err)
	} else {
		defer func() { _ = audit.Close() }()
		if err := audit.Migrate(ctx); err != nil {
			slog.Warn("audit migration failed, continuing without audit", "error", err)
		} else {
			auditor = audit
		}
	}

	classifier := engine.NewBatchClassifier(
		pattern.NewMatcher(),
		adapter,
		cc.store,
		auditor,
		companyID,
		cc.company.PrimaryCity,
		slog.Default(),
	)

	bar := progressbar.Default(int64(len(units)), "classifying")
	classifier.Progress = func(processed, _ int) {
		_ = bar.Set(processed)
	}

	_, stats, err := classifier.Run(ctx, kind, units, batchSize)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}
	_ = bar.Finish()

	slog.Info("Classification complete",
		"company", companyID,
		"kind", kind,
		"total", stats.Total,
		"pattern", stats.Pattern,
		"oracle", stats.Oracle,
		"defaulted", stats.Defaulted,
		"uncertain", stats.Uncertain,
		"skipped", stats.Skipped,
		"output", cc.store.Paths().ResultsFile(kind))

	return nil
}

func loadUnits(cc *companyContext, kind model.UnitKind) ([]model.ClassificationUnit, error) {
	switch kind {
	case model.KindVendors:
		vendors, err := cc.store.LoadVendors()
		if err != nil {
			return nil, err
		}
		units := make([]model.ClassificationUnit, len(vendors))
		for i, v := range vendors {
			units[i] = v
		}
		return units, nil
	default:
		expenses, err := cc.store.LoadExpenses()
		if err != nil {
			return nil, err
		}
		units := make([]model.ClassificationUnit, len(expenses))
		for i, e := range expenses {
			units[i] = model.ExpenseUnit{
				Name:        e.Name,
				Description: e.Description,
				Date:        e.Date,
				Amount:      e.Amount,
				ExpenseID:   e.ExpenseID,
			}
		}
		return units, nil
	}
}
