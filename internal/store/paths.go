// Package store persists the pipeline's intermediate and output files.
// Everything is load-whole, compute, write-whole: a crash mid-run leaves the
// previous run's outputs intact and never a partial file.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MelanieRosenberg/Town/internal/model"
)

// Paths resolves the per-company directory layout under the data dir.
type Paths struct {
	CompanyID string
	dataDir   string
}

// NewPaths builds the path set for one company.
func NewPaths(dataDir, companyID string) Paths {
	return Paths{CompanyID: companyID, dataDir: dataDir}
}

// InputsDir is where the operator drops the company's ledger export.
func (p Paths) InputsDir() string {
	return filepath.Join(p.dataDir, "inputs", "company"+p.CompanyID)
}

// IntermediatesDir holds the prepared expense and vendor files.
func (p Paths) IntermediatesDir() string {
	return filepath.Join(p.dataDir, "intermediates", "company"+p.CompanyID)
}

// OutputsDir holds classified results and the summary.
func (p Paths) OutputsDir() string {
	return filepath.Join(p.dataDir, "outputs", "company"+p.CompanyID)
}

// InputFile is the company's ledger spreadsheet.
func (p Paths) InputFile() string {
	return filepath.Join(p.InputsDir(), fmt.Sprintf("Company %s.xlsx", p.CompanyID))
}

// ExpensesFile holds the filtered rows awaiting classification.
func (p Paths) ExpensesFile() string {
	return filepath.Join(p.IntermediatesDir(), "expenses_to_classify.json")
}

// VendorsFile holds the unique-vendor list.
func (p Paths) VendorsFile() string {
	return filepath.Join(p.IntermediatesDir(), "unique_vendors.json")
}

// EvalSetFile holds the known zero-deductible vendors.
func (p Paths) EvalSetFile() string {
	return filepath.Join(p.IntermediatesDir(), "zero_deductible_eval_set.json")
}

// ClassifiedVendorsFile holds vendor classification results.
func (p Paths) ClassifiedVendorsFile() string {
	return filepath.Join(p.OutputsDir(), "classified_vendors.json")
}

// ClassifiedExpensesFile holds expense classification results.
func (p Paths) ClassifiedExpensesFile() string {
	return filepath.Join(p.OutputsDir(), "classified_expenses.json")
}

// VendorsByRateFile holds the vendor names classified at the given rate.
func (p Paths) VendorsByRateFile(rate model.Rate) string {
	name := fmt.Sprintf("vendors_deductible_%d.json", int(float64(rate)*100))
	return filepath.Join(p.OutputsDir(), name)
}

// SummaryFile is the final per-bucket rollup.
func (p Paths) SummaryFile() string {
	return filepath.Join(p.OutputsDir(), "final_summary.csv")
}

// ResultsFile returns the output file for a unit kind.
func (p Paths) ResultsFile(kind model.UnitKind) string {
	if kind == model.KindExpenses {
		return p.ClassifiedExpensesFile()
	}
	return p.ClassifiedVendorsFile()
}

// EnsureDirs creates the intermediate and output directories.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.IntermediatesDir(), p.OutputsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
