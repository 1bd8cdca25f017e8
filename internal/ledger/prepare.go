package ledger

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/MelanieRosenberg/Town/internal/config"
	"github.com/MelanieRosenberg/Town/internal/model"
)

// Column names every export is expected to carry after labeling.
const (
	colDate        = "Date"
	colType        = "Transaction Type"
	colNum         = "Num"
	colName        = "Name"
	colDescription = "Memo/Description"
	colSplit       = "Split"
	colAmount      = "Amount"
)

// SelectExpenses turns labeled ledger rows into the expense list submitted
// for classification. Ids are assigned over the raw rows before filtering so
// they stay stable when filter rules change; only rows matching the
// configured filter with transaction type "Expense" survive.
func SelectExpenses(rows []Row, filter config.Filter, logger *slog.Logger) []model.Expense {
	var expenses []model.Expense

	for i, row := range rows {
		expenseID := i + 1

		if !matchesFilter(row[filter.Column], filter.Values) {
			continue
		}
		if row[colType] != "Expense" {
			continue
		}

		amount, err := parseAmount(row[colAmount])
		if err != nil {
			logger.Warn("unparseable amount, recording as zero",
				"expense_id", expenseID,
				"amount", row[colAmount])
		}

		expenses = append(expenses, model.Expense{
			Date:            row[colDate],
			TransactionType: row[colType],
			Num:             row[colNum],
			Name:            row[colName],
			Description:     row[colDescription],
			Split:           row[colSplit],
			Amount:          amount,
			ExpenseID:       expenseID,
		})
	}

	return expenses
}

// matchesFilter reports whether the cell contains any of the filter values.
// Empty cells never match.
func matchesFilter(cell string, values []string) bool {
	if cell == "" {
		return false
	}
	for _, v := range values {
		if strings.Contains(cell, v) {
			return true
		}
	}
	return false
}

// parseAmount handles the currency formatting spreadsheets apply to numeric
// cells. Parenthesized amounts are the accounting convention for negatives.
func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

// unknownNames are the vendor cell values that mean "no vendor recorded",
// compared case-insensitively.
var unknownNames = map[string]struct{}{
	"":               {},
	"unknown vendor": {},
	"nan":            {},
	"none":           {},
}

// UniqueVendors collapses the expense list into one classification unit per
// vendor. Known vendors accumulate deduplicated sample descriptions across
// their transactions; rows with no usable vendor each become their own
// unknown-vendor unit carrying the row id, so two unrelated unknown
// transactions are never classified as one.
func UniqueVendors(expenses []model.Expense) []model.VendorUnit {
	var vendors []model.VendorUnit
	byName := make(map[string]int)

	for _, e := range expenses {
		name := strings.TrimSpace(e.Name)
		description := strings.TrimSpace(e.Description)

		if _, unknown := unknownNames[strings.ToLower(name)]; unknown {
			unit := model.VendorUnit{
				Name:               model.UnknownVendorName,
				ExpenseID:          e.ExpenseID,
				SampleDescriptions: []string{},
			}
			if description != "" {
				unit.SampleDescriptions = []string{description}
			}
			vendors = append(vendors, unit)
			continue
		}

		if idx, ok := byName[name]; ok {
			if description != "" && !contains(vendors[idx].SampleDescriptions, description) {
				vendors[idx].SampleDescriptions = append(vendors[idx].SampleDescriptions, description)
			}
			continue
		}

		unit := model.VendorUnit{Name: name, SampleDescriptions: []string{}}
		if description != "" {
			unit.SampleDescriptions = []string{description}
		}
		byName[name] = len(vendors)
		vendors = append(vendors, unit)
	}

	return vendors
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
