package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MelanieRosenberg/Town/internal/common"
	"github.com/MelanieRosenberg/Town/internal/model"
)

// Store reads and writes the per-company JSON artifacts.
type Store struct {
	paths Paths
}

// New creates a store over the given path set.
func New(paths Paths) *Store {
	return &Store{paths: paths}
}

// Paths exposes the underlying path set.
func (s *Store) Paths() Paths {
	return s.paths
}

// SaveExpenses overwrites the expenses-to-classify file.
func (s *Store) SaveExpenses(expenses []model.Expense) error {
	return writeJSON(s.paths.ExpensesFile(), expenses)
}

// LoadExpenses reads the expenses-to-classify file.
func (s *Store) LoadExpenses() ([]model.Expense, error) {
	var expenses []model.Expense
	if err := readJSON(s.paths.ExpensesFile(), &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// SaveVendors overwrites the unique-vendor file.
func (s *Store) SaveVendors(vendors []model.VendorUnit) error {
	return writeJSON(s.paths.VendorsFile(), vendors)
}

// LoadVendors reads the unique-vendor file.
func (s *Store) LoadVendors() ([]model.VendorUnit, error) {
	var vendors []model.VendorUnit
	if err := readJSON(s.paths.VendorsFile(), &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// SaveResults overwrites the classified output for a unit kind verbatim.
func (s *Store) SaveResults(kind model.UnitKind, results []model.ClassificationResult) error {
	if results == nil {
		results = []model.ClassificationResult{}
	}
	return writeJSON(s.paths.ResultsFile(kind), results)
}

// LoadClassifiedVendors reads the vendor classification results.
func (s *Store) LoadClassifiedVendors() ([]model.ClassificationResult, error) {
	var results []model.ClassificationResult
	if err := readJSON(s.paths.ClassifiedVendorsFile(), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SaveClassifiedExpenses overwrites the aggregated per-transaction output.
func (s *Store) SaveClassifiedExpenses(expenses []model.ClassifiedExpense) error {
	if expenses == nil {
		expenses = []model.ClassifiedExpense{}
	}
	return writeJSON(s.paths.ClassifiedExpensesFile(), expenses)
}

// SaveVendorsByRate writes the per-rate vendor name lists.
func (s *Store) SaveVendorsByRate(byRate map[model.Rate][]string) error {
	for _, rate := range model.SummaryRates {
		names := byRate[rate]
		if names == nil {
			names = []string{}
		}
		if err := writeJSON(s.paths.VendorsByRateFile(rate), names); err != nil {
			return err
		}
	}
	return nil
}

// evalSet matches the evaluation-set file shape: {"vendors": [...]}.
type evalSet struct {
	Vendors []string `json:"vendors"`
}

// LoadEvalSet reads the known zero-deductible vendor names.
func (s *Store) LoadEvalSet() ([]string, error) {
	var set evalSet
	if err := readJSON(s.paths.EvalSetFile(), &set); err != nil {
		return nil, err
	}
	return set.Vendors, nil
}

// SaveEvalSet overwrites the evaluation-set file.
func (s *Store) SaveEvalSet(vendors []string) error {
	return writeJSON(s.paths.EvalSetFile(), evalSet{Vendors: vendors})
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return common.NewUserError(fmt.Sprintf("missing input file %s (run prepare first?)", path), err)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
