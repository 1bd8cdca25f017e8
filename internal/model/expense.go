package model

// Expense is a raw ledger row selected for classification. JSON keys match
// the ledger export's column headers so the intermediate files stay readable
// next to the source spreadsheet.
type Expense struct {
	Date            string  `json:"Date"`
	TransactionType string  `json:"Transaction Type"`
	Num             string  `json:"Num"`
	Name            string  `json:"Name"`
	Description     string  `json:"Memo/Description"`
	Split           string  `json:"Split"`
	Amount          float64 `json:"Amount"`
	ExpenseID       int     `json:"expense_id"`
}

// ClassifiedExpense is an expense with its resolved deduction rate attached.
// Created once per source row and mutated only to carry the rate; never
// deleted.
type ClassifiedExpense struct {
	Date             string  `json:"date"`
	Vendor           string  `json:"vendor"`
	Description      string  `json:"description"`
	Amount           float64 `json:"amount"`
	DeductionRate    Rate    `json:"deduction_rate"`
	DeductibleAmount float64 `json:"deductible_amount"`
	ExpenseID        int     `json:"expense_id,omitempty"`
}

// NewClassifiedExpense attaches a deduction rate to a raw expense. The
// amount is stored as a magnitude; ledger sign conventions vary by company
// and are not meaningful here.
func NewClassifiedExpense(e Expense, vendorKey string, rate Rate) ClassifiedExpense {
	amount := abs(e.Amount)
	return ClassifiedExpense{
		Date:             e.Date,
		Vendor:           vendorKey,
		Description:      e.Description,
		Amount:           amount,
		DeductionRate:    rate,
		DeductibleAmount: amount * float64(rate),
	}
}
