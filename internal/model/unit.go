package model

import (
	"fmt"
	"strings"
)

// UnitKind selects which flavor of classification unit a run operates on.
type UnitKind string

// Unit kinds.
const (
	KindVendors  UnitKind = "vendors"
	KindExpenses UnitKind = "expenses"
)

// Valid reports whether k names a known unit kind.
func (k UnitKind) Valid() bool {
	return k == KindVendors || k == KindExpenses
}

// UnknownVendorName is the sentinel used when a ledger row carries no vendor.
const UnknownVendorName = "Unknown Vendor"

// UnknownVendorKey builds the synthetic key that keeps unknown-vendor rows
// from sharing a classification across unrelated transactions.
func UnknownVendorKey(expenseID int) string {
	return fmt.Sprintf("%s (ID: %d)", UnknownVendorName, expenseID)
}

// ClassificationUnit is the smallest thing sent to the classifier: either a
// vendor aggregated across its transactions, or a single expense row.
type ClassificationUnit interface {
	// VendorName returns the unit's vendor field, never empty.
	VendorName() string
	// DisplayText returns a short human-readable description for logs.
	DisplayText() string
	// ContextFields returns the fields the oracle prompt includes for the unit.
	ContextFields() map[string]any
}

// VendorUnit is a vendor with the sample descriptions collected from its
// transactions. ExpenseID is set only for unknown-vendor entries, where it
// disambiguates otherwise-identical rows.
type VendorUnit struct {
	Name               string   `json:"vendor_name"`
	SampleDescriptions []string `json:"sample_descriptions"`
	ExpenseID          int      `json:"expense_id,omitempty"`
}

// VendorName returns the vendor name, substituting the sentinel for blanks.
func (v VendorUnit) VendorName() string {
	if strings.TrimSpace(v.Name) == "" {
		return "Unknown"
	}
	return v.Name
}

// DisplayText returns the vendor's first sample description.
func (v VendorUnit) DisplayText() string {
	if len(v.SampleDescriptions) == 0 {
		return "No description available"
	}
	return v.SampleDescriptions[0]
}

// ContextFields returns the prompt fields for a vendor unit. At most three
// sample descriptions are passed along.
func (v VendorUnit) ContextFields() map[string]any {
	descs := v.SampleDescriptions
	if len(descs) > 3 {
		descs = descs[:3]
	}
	description := "No description available"
	if len(descs) > 0 {
		description = strings.Join(descs, "; ")
	}
	return map[string]any{
		"vendor":      v.VendorName(),
		"description": description,
	}
}

// IsUnknown reports whether the vendor name means "no vendor recorded".
func (v VendorUnit) IsUnknown() bool {
	return strings.EqualFold(strings.TrimSpace(v.Name), UnknownVendorName)
}

// ExpenseUnit is a single ledger row submitted for classification.
type ExpenseUnit struct {
	Name        string  `json:"vendor_name"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	ExpenseID   int     `json:"expense_id"`
}

// VendorName returns the vendor name, substituting the sentinel for blanks.
func (e ExpenseUnit) VendorName() string {
	if strings.TrimSpace(e.Name) == "" {
		return "Unknown"
	}
	return e.Name
}

// DisplayText returns a short log line for the expense.
func (e ExpenseUnit) DisplayText() string {
	return fmt.Sprintf("%s, vendor: %s, $%.2f", CanonicalDate(e.Date), e.VendorName(), abs(e.Amount))
}

// ContextFields returns the prompt fields for an expense unit.
func (e ExpenseUnit) ContextFields() map[string]any {
	description := e.Description
	if strings.TrimSpace(description) == "" {
		description = "No description available"
	}
	return map[string]any{
		"vendor":      e.VendorName(),
		"description": description,
		"amount":      e.Amount,
		"date":        e.Date,
	}
}

// CanonicalDate reduces a raw ledger date to its first whitespace-delimited
// token. Ledger exports append a time-of-day component that is never
// meaningful for classification.
func CanonicalDate(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
